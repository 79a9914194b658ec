package m_subscription

import (
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the subscriptions table.
type Data struct {
	SubscriptionID            string              `spanner:"subscription_id"`
	MemberID                  string              `spanner:"member_id"`
	ProductID                 string              `spanner:"product_id"`
	Quantity                  int64               `spanner:"quantity"`
	PeriodID                  spanner.NullString  `spanner:"period_id"`
	StartDate                 civil.Date          `spanner:"start_date"`
	EndDate                   spanner.NullDate    `spanner:"end_date"`
	CancellationTS            spanner.NullTime    `spanner:"cancellation_ts"`
	TrialDisabled             bool                `spanner:"trial_disabled"`
	TrialEndDateOverride      spanner.NullDate    `spanner:"trial_end_date_override"`
	NoticePeriodDuration      spanner.NullInt64   `spanner:"notice_period_duration"`
	SolidarityPricePercentage spanner.NullNumeric `spanner:"solidarity_price_percentage"`
	SolidarityPriceAbsolute   spanner.NullNumeric `spanner:"solidarity_price_absolute"`
	AdminConfirmed            spanner.NullTime    `spanner:"admin_confirmed"`
	Version                   int64               `spanner:"version"`
	CreatedAt                 time.Time           `spanner:"created_at"`
	UpdatedAt                 time.Time           `spanner:"updated_at"`
}
