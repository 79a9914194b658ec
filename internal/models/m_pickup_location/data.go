package m_pickup_location

// Data represents the database model for the pickup_locations table.
type Data struct {
	PickupLocationID string `spanner:"pickup_location_id"`
	Name             string `spanner:"name"`
}
