package m_product_capacity

// Field name constants for the product_capacities table.
const (
	TableName = "product_capacities"

	ProductCapacityID = "product_capacity_id"
	ProductTypeID     = "product_type_id"
	PeriodID          = "period_id"
	Capacity          = "capacity"
)

// Columns lists every column in declaration order.
var Columns = []string{ProductCapacityID, ProductTypeID, PeriodID, Capacity}
