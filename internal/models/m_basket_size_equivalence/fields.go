package m_basket_size_equivalence

// Field name constants for the product_basket_size_equivalences table.
const (
	TableName = "product_basket_size_equivalences"

	ProductID    = "product_id"
	BasketSizeID = "basket_size_id"
	Quantity     = "quantity"
)

// Columns lists every column in declaration order.
var Columns = []string{ProductID, BasketSizeID, Quantity}
