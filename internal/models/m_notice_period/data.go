package m_notice_period

// Data represents the database model for the notice_periods table.
type Data struct {
	ProductTypeID  string `spanner:"product_type_id"`
	PeriodID       string `spanner:"period_id"`
	DurationMonths int64  `spanner:"duration_months"`
}
