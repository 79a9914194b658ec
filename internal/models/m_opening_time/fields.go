package m_opening_time

// Field name constants for the pickup_location_opening_times table.
const (
	TableName = "pickup_location_opening_times"

	PickupLocationID = "pickup_location_id"
	DayOfWeek        = "day_of_week"
	OpenTime         = "open_time"
	CloseTime        = "close_time"
)

// Columns lists every column in declaration order.
var Columns = []string{PickupLocationID, DayOfWeek, OpenTime, CloseTime}
