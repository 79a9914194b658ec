package m_growing_period

import (
	"cloud.google.com/go/civil"
)

// Data represents the database model for the growing_periods table.
type Data struct {
	PeriodID  string     `spanner:"period_id"`
	StartDate civil.Date `spanner:"start_date"`
	EndDate   civil.Date `spanner:"end_date"`
}
