package m_basket_capacity

// Field name constants for the pickup_location_basket_capacities table.
const (
	TableName = "pickup_location_basket_capacities"

	PickupLocationID = "pickup_location_id"
	BasketSizeID     = "basket_size_id"
	Capacity         = "capacity"
)

// Columns lists every column in declaration order.
var Columns = []string{PickupLocationID, BasketSizeID, Capacity}
