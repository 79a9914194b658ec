package m_subscription

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the subscriptions table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a subscription.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns,
		[]interface{}{
			data.SubscriptionID,
			data.MemberID,
			data.ProductID,
			data.Quantity,
			data.PeriodID,
			data.StartDate,
			data.EndDate,
			data.CancellationTS,
			data.TrialDisabled,
			data.TrialEndDateOverride,
			data.NoticePeriodDuration,
			data.SolidarityPricePercentage,
			data.SolidarityPriceAbsolute,
			data.AdminConfirmed,
			data.Version,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific subscription fields.
// The updates map should contain field names as keys and new values.
func (m *Model) UpdateMut(subscriptionID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	// Always update the UpdatedAt timestamp
	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, SubscriptionID)
	values = append(values, subscriptionID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a subscription.
func (m *Model) DeleteMut(subscriptionID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{subscriptionID})
}
