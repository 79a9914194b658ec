package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/models/m_subscription"
)

// SubscriptionRepo implements SubscriptionRepository for Spanner.
type SubscriptionRepo struct {
	client *spanner.Client
	model  *m_subscription.Model
}

// NewSubscriptionRepo creates a new SubscriptionRepo.
func NewSubscriptionRepo(client *spanner.Client) contracts.SubscriptionRepository {
	return &SubscriptionRepo{
		client: client,
		model:  m_subscription.NewModel(),
	}
}

// GetByID retrieves a subscription by ID, reconstructing the domain aggregate.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	row, err := r.client.Single().ReadRow(ctx, m_subscription.TableName, spanner.Key{id}, m_subscription.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to read subscription: %w", err)
	}

	var data m_subscription.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse subscription: %w", err)
	}
	return dataToSubscription(&data)
}

// InsertMut creates a mutation for inserting a new subscription.
func (r *SubscriptionRepo) InsertMut(sub *domain.Subscription) *spanner.Mutation {
	data := subscriptionToData(sub)
	data.Version = 1
	return r.model.InsertMut(data)
}

// UpdateMut creates a mutation for the mutable fields that changed.
func (r *SubscriptionRepo) UpdateMut(sub *domain.Subscription) *spanner.Mutation {
	changes := sub.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})
	if changes.Dirty(domain.FieldCancellationTS) {
		updates[m_subscription.CancellationTS] = toNullTime(sub.CancellationTS())
	}
	if changes.Dirty(domain.FieldEndDate) {
		updates[m_subscription.EndDate] = toNullDate(sub.EndDate())
	}
	if changes.Dirty(domain.FieldAdminConfirmed) {
		updates[m_subscription.AdminConfirmed] = toNullTime(sub.AdminConfirmed())
	}
	if len(updates) == 0 {
		return nil
	}

	// Increment version for optimistic locking
	updates[m_subscription.Version] = sub.Version() + 1

	return r.model.UpdateMut(sub.ID(), updates)
}

// DeleteMut creates a mutation removing a subscription.
func (r *SubscriptionRepo) DeleteMut(id string) *spanner.Mutation {
	return r.model.DeleteMut(id)
}

func subscriptionToData(sub *domain.Subscription) *m_subscription.Data {
	d := sub.Data()
	return &m_subscription.Data{
		SubscriptionID:            d.ID,
		MemberID:                  d.MemberID,
		ProductID:                 d.ProductID,
		Quantity:                  int64(d.Quantity),
		PeriodID:                  nullString(d.PeriodID),
		StartDate:                 toCivil(d.StartDate),
		EndDate:                   toNullDate(d.EndDate),
		CancellationTS:            toNullTime(d.CancellationTS),
		TrialDisabled:             d.TrialDisabled,
		TrialEndDateOverride:      toNullDate(d.TrialEndDateOverride),
		NoticePeriodDuration:      toNullInt(d.NoticePeriodDuration),
		SolidarityPricePercentage: toNullNumeric(d.SolidarityPricePercentage),
		SolidarityPriceAbsolute:   moneyToNullNumeric(d.SolidarityPriceAbsolute),
		AdminConfirmed:            toNullTime(d.AdminConfirmed),
		Version:                   d.Version,
		CreatedAt:                 d.CreatedAt,
	}
}

func dataToSubscription(data *m_subscription.Data) (*domain.Subscription, error) {
	percentage, err := fromNullNumeric(data.SolidarityPricePercentage)
	if err != nil {
		return nil, fmt.Errorf("subscription %s: %w", data.SubscriptionID, err)
	}
	absolute, err := moneyFromNullNumeric(data.SolidarityPriceAbsolute)
	if err != nil {
		return nil, fmt.Errorf("subscription %s: %w", data.SubscriptionID, err)
	}

	return domain.ReconstructSubscription(domain.SubscriptionData{
		ID:                        data.SubscriptionID,
		MemberID:                  data.MemberID,
		ProductID:                 data.ProductID,
		Quantity:                  int(data.Quantity),
		PeriodID:                  data.PeriodID.StringVal,
		StartDate:                 fromCivil(data.StartDate),
		EndDate:                   fromNullDate(data.EndDate),
		CancellationTS:            fromNullTime(data.CancellationTS),
		TrialDisabled:             data.TrialDisabled,
		TrialEndDateOverride:      fromNullDate(data.TrialEndDateOverride),
		NoticePeriodDuration:      fromNullInt(data.NoticePeriodDuration),
		SolidarityPricePercentage: percentage,
		SolidarityPriceAbsolute:   absolute,
		AdminConfirmed:            fromNullTime(data.AdminConfirmed),
		CreatedAt:                 data.CreatedAt,
		Version:                   data.Version,
	}), nil
}
