package m_capability

// Field name constants for the pickup_location_capabilities table.
const (
	TableName = "pickup_location_capabilities"

	PickupLocationID = "pickup_location_id"
	ProductTypeID    = "product_type_id"
	MaxCapacity      = "max_capacity"
)

// Columns lists every column in declaration order.
var Columns = []string{PickupLocationID, ProductTypeID, MaxCapacity}
