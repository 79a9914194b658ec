package m_member_pickup_location

import (
	"cloud.google.com/go/civil"
)

// Data represents the database model for the member_pickup_locations table.
type Data struct {
	MemberID         string     `spanner:"member_id"`
	PickupLocationID string     `spanner:"pickup_location_id"`
	ValidFrom        civil.Date `spanner:"valid_from"`
}
