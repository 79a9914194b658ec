package m_product_type

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the product_types table.
type Data struct {
	ProductTypeID             string             `spanner:"product_type_id"`
	Name                      string             `spanner:"name"`
	DeliveryCycle             string             `spanner:"delivery_cycle"`
	SingleSubscriptionOnly    bool               `spanner:"single_subscription_only"`
	MustBeSubscribedTo        bool               `spanner:"must_be_subscribed_to"`
	SubscriptionsHaveEndDates bool               `spanner:"subscriptions_have_end_dates"`
	ContractLink              spanner.NullString `spanner:"contract_link"`
}
