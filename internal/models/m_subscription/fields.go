package m_subscription

// Field name constants for the subscriptions table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "subscriptions"

	SubscriptionID            = "subscription_id"
	MemberID                  = "member_id"
	ProductID                 = "product_id"
	Quantity                  = "quantity"
	PeriodID                  = "period_id"
	StartDate                 = "start_date"
	EndDate                   = "end_date"
	CancellationTS            = "cancellation_ts"
	TrialDisabled             = "trial_disabled"
	TrialEndDateOverride      = "trial_end_date_override"
	NoticePeriodDuration      = "notice_period_duration"
	SolidarityPricePercentage = "solidarity_price_percentage"
	SolidarityPriceAbsolute   = "solidarity_price_absolute"
	AdminConfirmed            = "admin_confirmed"
	Version                   = "version"
	CreatedAt                 = "created_at"
	UpdatedAt                 = "updated_at"
)

// Columns lists every column in declaration order.
var Columns = []string{
	SubscriptionID, MemberID, ProductID, Quantity, PeriodID, StartDate, EndDate,
	CancellationTS, TrialDisabled, TrialEndDateOverride, NoticePeriodDuration,
	SolidarityPricePercentage, SolidarityPriceAbsolute, AdminConfirmed,
	Version, CreatedAt, UpdatedAt,
}
