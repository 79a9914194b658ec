package m_member_pickup_location

// Field name constants for the member_pickup_locations table.
const (
	TableName = "member_pickup_locations"

	MemberID         = "member_id"
	PickupLocationID = "pickup_location_id"
	ValidFrom        = "valid_from"
)

// Columns lists every column in declaration order.
var Columns = []string{MemberID, PickupLocationID, ValidFrom}
