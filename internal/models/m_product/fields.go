package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID     = "product_id"
	ProductTypeID = "product_type_id"
	Name          = "name"
	Capacity      = "capacity"
	Deleted       = "deleted"
)

// Columns lists every column in declaration order.
var Columns = []string{ProductID, ProductTypeID, Name, Capacity, Deleted}
