package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field names for change tracking
const (
	FieldCancellationTS = "cancellation_ts"
	FieldEndDate        = "end_date"
	FieldAdminConfirmed = "admin_confirmed"
)

// SubscriptionData carries every attribute of a subscription. It is the input of
// NewSubscription and ReconstructSubscription.
type SubscriptionData struct {
	ID        string
	MemberID  string
	ProductID string
	Quantity  int
	// PeriodID is empty for perpetual subscriptions of required products.
	PeriodID                  string
	StartDate                 time.Time
	EndDate                   *time.Time
	CancellationTS            *time.Time
	TrialDisabled             bool
	TrialEndDateOverride      *time.Time
	NoticePeriodDuration      *int
	SolidarityPricePercentage *decimal.Decimal
	SolidarityPriceAbsolute   *Money
	AdminConfirmed            *time.Time
	CreatedAt                 time.Time
	Version                   int64
}

// TrialData is the trial configuration a subscription is created with.
type TrialData struct {
	Disabled        bool
	EndDateOverride *time.Time
}

// Subscription is the aggregate root for a member's recurring product subscription.
// Except for cancellation, end date and admin confirmation it is immutable; renewals
// create a new aggregate.
type Subscription struct {
	d SubscriptionData

	changes *ChangeTracker
	events  []DomainEvent
}

// NewSubscription creates a subscription that does not exist in storage yet.
func NewSubscription(d SubscriptionData, now time.Time) (*Subscription, error) {
	if err := validateSubscriptionData(&d); err != nil {
		return nil, err
	}
	d.CreatedAt = now
	d.Version = 0

	s := &Subscription{d: d, changes: NewChangeTracker()}
	s.recordEvent(&SubscriptionCreatedEvent{
		SubscriptionID: d.ID,
		MemberID:       d.MemberID,
		ProductID:      d.ProductID,
		Quantity:       d.Quantity,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		CreatedAt:      now,
	})
	return s, nil
}

// ReconstructSubscription reconstitutes a stored subscription.
func ReconstructSubscription(d SubscriptionData) *Subscription {
	return &Subscription{d: d, changes: NewChangeTracker()}
}

func validateSubscriptionData(d *SubscriptionData) error {
	if d.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if d.EndDate != nil && d.EndDate.Before(d.StartDate) {
		return ErrInvalidSubscriptionEnd
	}
	if d.SolidarityPricePercentage != nil && d.SolidarityPriceAbsolute != nil {
		return ErrBothSolidarityPrices
	}
	return nil
}

// Getters
func (s *Subscription) ID() string                             { return s.d.ID }
func (s *Subscription) MemberID() string                       { return s.d.MemberID }
func (s *Subscription) ProductID() string                      { return s.d.ProductID }
func (s *Subscription) Quantity() int                          { return s.d.Quantity }
func (s *Subscription) PeriodID() string                       { return s.d.PeriodID }
func (s *Subscription) StartDate() time.Time                   { return s.d.StartDate }
func (s *Subscription) EndDate() *time.Time                    { return s.d.EndDate }
func (s *Subscription) CancellationTS() *time.Time             { return s.d.CancellationTS }
func (s *Subscription) TrialDisabled() bool                    { return s.d.TrialDisabled }
func (s *Subscription) TrialEndDateOverride() *time.Time       { return s.d.TrialEndDateOverride }
func (s *Subscription) NoticePeriodDuration() *int             { return s.d.NoticePeriodDuration }
func (s *Subscription) SolidarityPercentage() *decimal.Decimal { return s.d.SolidarityPricePercentage }
func (s *Subscription) SolidarityAbsolute() *Money             { return s.d.SolidarityPriceAbsolute }
func (s *Subscription) AdminConfirmed() *time.Time             { return s.d.AdminConfirmed }
func (s *Subscription) CreatedAt() time.Time                   { return s.d.CreatedAt }
func (s *Subscription) Version() int64                         { return s.d.Version }
func (s *Subscription) Changes() *ChangeTracker                { return s.changes }
func (s *Subscription) DomainEvents() []DomainEvent            { return s.events }

// Data returns a copy of all attributes.
func (s *Subscription) Data() SubscriptionData { return s.d }

// IsCancelled reports whether a cancellation was recorded.
func (s *Subscription) IsCancelled() bool { return s.d.CancellationTS != nil }

// IsActiveAt reports start_date <= date <= end_date (end_date nil = open-ended).
func (s *Subscription) IsActiveAt(date time.Time) bool {
	if date.Before(s.d.StartDate) {
		return false
	}
	return s.d.EndDate == nil || !date.After(*s.d.EndDate)
}

// IsActiveOrFutureAt reports whether the subscription has not ended by date.
func (s *Subscription) IsActiveOrFutureAt(date time.Time) bool {
	return s.d.EndDate == nil || !date.After(*s.d.EndDate)
}

// HasStartedBy reports whether the subscription started on or before date.
func (s *Subscription) HasStartedBy(date time.Time) bool {
	return !s.d.StartDate.After(date)
}

// SolidarityContribution is the monthly amount this subscription pays above (positive)
// or below (negative) the standard price, given the current unit price.
func (s *Subscription) SolidarityContribution(unitPrice Money) Money {
	if s.d.SolidarityPriceAbsolute != nil {
		return *s.d.SolidarityPriceAbsolute
	}
	if s.d.SolidarityPricePercentage != nil {
		return unitPrice.MultiplyByInt(s.d.Quantity).MultiplyBy(s.d.SolidarityPricePercentage.Div(decimal.NewFromInt(100)))
	}
	return Money{}
}

// Cancel records the cancellation. endDate, if given, trims the subscription.
func (s *Subscription) Cancel(now time.Time, endDate *time.Time) error {
	if s.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if endDate != nil {
		if endDate.Before(s.d.StartDate) {
			return ErrInvalidSubscriptionEnd
		}
		if s.d.EndDate == nil || endDate.Before(*s.d.EndDate) {
			e := *endDate
			s.d.EndDate = &e
			s.changes.MarkDirty(FieldEndDate)
		}
	}
	ts := now
	s.d.CancellationTS = &ts
	s.changes.MarkDirty(FieldCancellationTS)

	s.recordEvent(&SubscriptionCancelledEvent{
		SubscriptionID: s.d.ID,
		MemberID:       s.d.MemberID,
		EndDate:        s.d.EndDate,
		CancelledAt:    now,
	})
	return nil
}

// Renew builds the successor of s in the given growing period. The result is not stored;
// id may be empty for synthesized, never-persisted renewals.
func (s *Subscription) Renew(id string, period *GrowingPeriod, trial TrialData, noticeMonths *int, now time.Time) (*Subscription, error) {
	end := period.EndDate
	d := SubscriptionData{
		ID:                        id,
		MemberID:                  s.d.MemberID,
		ProductID:                 s.d.ProductID,
		Quantity:                  s.d.Quantity,
		PeriodID:                  period.ID,
		StartDate:                 period.StartDate,
		EndDate:                   &end,
		TrialDisabled:             trial.Disabled,
		TrialEndDateOverride:      trial.EndDateOverride,
		NoticePeriodDuration:      noticeMonths,
		SolidarityPricePercentage: s.d.SolidarityPricePercentage,
		SolidarityPriceAbsolute:   s.d.SolidarityPriceAbsolute,
	}
	if err := validateSubscriptionData(&d); err != nil {
		return nil, err
	}
	d.CreatedAt = now

	renewed := &Subscription{d: d, changes: NewChangeTracker()}
	renewed.recordEvent(&SubscriptionRenewedEvent{
		SubscriptionID:         id,
		PreviousSubscriptionID: s.d.ID,
		MemberID:               s.d.MemberID,
		ProductID:              s.d.ProductID,
		PeriodID:               period.ID,
		StartDate:              d.StartDate,
		EndDate:                end,
		RenewedAt:              now,
	})
	return renewed, nil
}

// recordEvent adds a domain event to the list of events.
func (s *Subscription) recordEvent(event DomainEvent) {
	s.events = append(s.events, event)
}

// ClearEvents clears all recorded domain events (called after publishing).
func (s *Subscription) ClearEvents() {
	s.events = nil
}

// MarkDeleted records the removal of a subscription that has not started yet.
// The caller issues the delete mutation.
func (s *Subscription) MarkDeleted(now time.Time) {
	s.recordEvent(&SubscriptionDeletedEvent{
		SubscriptionID: s.d.ID,
		MemberID:       s.d.MemberID,
		ProductID:      s.d.ProductID,
		DeletedAt:      now,
	})
}
