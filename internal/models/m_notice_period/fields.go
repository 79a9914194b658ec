package m_notice_period

// Field name constants for the notice_periods table.
const (
	TableName = "notice_periods"

	ProductTypeID  = "product_type_id"
	PeriodID       = "period_id"
	DurationMonths = "duration_months"
)

// Columns lists every column in declaration order.
var Columns = []string{ProductTypeID, PeriodID, DurationMonths}
