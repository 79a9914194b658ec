package m_pickup_location

// Field name constants for the pickup_locations table.
const (
	TableName = "pickup_locations"

	PickupLocationID = "pickup_location_id"
	Name             = "name"
)

// Columns lists every column in declaration order.
var Columns = []string{PickupLocationID, Name}
