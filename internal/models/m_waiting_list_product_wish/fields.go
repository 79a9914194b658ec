package m_waiting_list_product_wish

// Field name constants for the waiting_list_product_wishes table.
const (
	TableName = "waiting_list_product_wishes"

	EntryID   = "entry_id"
	ProductID = "product_id"
	Quantity  = "quantity"
)

// Columns lists every column in declaration order.
var Columns = []string{EntryID, ProductID, Quantity}
