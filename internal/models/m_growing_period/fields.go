package m_growing_period

// Field name constants for the growing_periods table.
const (
	TableName = "growing_periods"

	PeriodID  = "period_id"
	StartDate = "start_date"
	EndDate   = "end_date"
)

// Columns lists every column in declaration order.
var Columns = []string{PeriodID, StartDate, EndDate}
