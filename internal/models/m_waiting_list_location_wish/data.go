package m_waiting_list_location_wish

// Data represents the database model for the waiting_list_pickup_location_wishes table.
type Data struct {
	EntryID          string `spanner:"entry_id"`
	PickupLocationID string `spanner:"pickup_location_id"`
	Priority         int64  `spanner:"priority"`
}
