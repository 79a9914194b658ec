package m_waiting_list_location_wish

// Field name constants for the waiting_list_pickup_location_wishes table.
const (
	TableName = "waiting_list_pickup_location_wishes"

	EntryID          = "entry_id"
	PickupLocationID = "pickup_location_id"
	Priority         = "priority"
)

// Columns lists every column in declaration order.
var Columns = []string{EntryID, PickupLocationID, Priority}
