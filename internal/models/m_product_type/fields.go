package m_product_type

// Field name constants for the product_types table.
const (
	TableName = "product_types"

	ProductTypeID             = "product_type_id"
	Name                      = "name"
	DeliveryCycle             = "delivery_cycle"
	SingleSubscriptionOnly    = "single_subscription_only"
	MustBeSubscribedTo        = "must_be_subscribed_to"
	SubscriptionsHaveEndDates = "subscriptions_have_end_dates"
	ContractLink              = "contract_link"
)

// Columns lists every column in declaration order.
var Columns = []string{ProductTypeID, Name, DeliveryCycle, SingleSubscriptionOnly, MustBeSubscribedTo, SubscriptionsHaveEndDates, ContractLink}
