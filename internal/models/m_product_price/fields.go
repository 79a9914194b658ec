package m_product_price

// Field name constants for the product_prices table.
const (
	TableName = "product_prices"

	ProductPriceID = "product_price_id"
	ProductID      = "product_id"
	Price          = "price"
	Size           = "size"
	ValidFrom      = "valid_from"
)

// Columns lists every column in declaration order.
var Columns = []string{ProductPriceID, ProductID, Price, Size, ValidFrom}
