package m_opening_time

// Data represents the database model for the pickup_location_opening_times table.
type Data struct {
	PickupLocationID string `spanner:"pickup_location_id"`
	DayOfWeek        int64  `spanner:"day_of_week"`
	OpenTime         string `spanner:"open_time"`
	CloseTime        string `spanner:"close_time"`
}
