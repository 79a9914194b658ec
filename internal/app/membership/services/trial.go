package services

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// TrialManager derives the trial state of subscriptions.
type TrialManager struct {
	params   params.Provider
	delivery *DeliveryCalculator
	clock    clock.Clock
}

// NewTrialManager creates a new TrialManager.
func NewTrialManager(p params.Provider, delivery *DeliveryCalculator, clk clock.Clock) *TrialManager {
	return &TrialManager{params: p, delivery: delivery, clock: clk}
}

// IsTrialEnabled reports whether trial periods are switched on for the organisation.
func (m *TrialManager) IsTrialEnabled(ctx context.Context) (bool, error) {
	return m.params.Bool(ctx, params.TrialPeriodEnabled)
}

// EndOfTrialPeriod returns the last day of the subscription's trial, or nil when the
// subscription has no trial.
func (m *TrialManager) EndOfTrialPeriod(ctx context.Context, sub *domain.Subscription) (*time.Time, error) {
	enabled, err := m.IsTrialEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled || sub.TrialDisabled() {
		return nil, nil
	}
	if override := sub.TrialEndDateOverride(); override != nil {
		return dates.Ptr(*override), nil
	}

	duration, err := m.params.Int(ctx, params.TrialPeriodDuration)
	if err != nil {
		return nil, err
	}
	unit, err := params.GetTrialUnit(ctx, m.params)
	if err != nil {
		return nil, err
	}
	switch unit {
	case domain.TrialUnitMonths:
		return dates.Ptr(dates.AddMonths(sub.StartDate(), duration)), nil
	case domain.TrialUnitWeeks:
		return dates.Ptr(dates.AddWeeks(sub.StartDate(), duration)), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTrialUnit, unit)
}

// IsSubscriptionInTrial reports whether reference is on or before the trial end of a
// subscription that is not cancelled.
func (m *TrialManager) IsSubscriptionInTrial(ctx context.Context, sub *domain.Subscription, reference time.Time) (bool, error) {
	if sub.IsCancelled() {
		return false, nil
	}
	end, err := m.EndOfTrialPeriod(ctx, sub)
	if err != nil || end == nil {
		return false, err
	}
	return !end.Before(reference), nil
}

// TrialState classifies the subscription at reference.
func (m *TrialManager) TrialState(ctx context.Context, sub *domain.Subscription, reference time.Time) (domain.TrialState, error) {
	end, err := m.EndOfTrialPeriod(ctx, sub)
	if err != nil {
		return 0, err
	}
	if end == nil {
		return domain.TrialNotApplicable, nil
	}
	if !sub.IsCancelled() && !end.Before(reference) {
		return domain.TrialInProgress, nil
	}
	return domain.TrialEnded, nil
}

// EarliestTrialCancellationDate returns the date a cancellation requested today takes
// effect. Without early cancellation it is the end of the trial; otherwise today while
// the change deadline of the next delivery has not passed, else the day after that delivery.
func (m *TrialManager) EarliestTrialCancellationDate(ctx context.Context, rc *reqcache.Cache, sub *domain.Subscription) (time.Time, error) {
	end, err := m.EndOfTrialPeriod(ctx, sub)
	if err != nil {
		return time.Time{}, err
	}
	if end == nil {
		return time.Time{}, domain.ErrNotInTrial
	}

	early, err := m.params.Bool(ctx, params.TrialPeriodCanBeCancelledBeforeEnd)
	if err != nil {
		return time.Time{}, err
	}
	if !early {
		return *end, nil
	}

	today := clock.Today(m.clock)
	locationID, _, err := rc.MemberPickupLocationAt(ctx, sub.MemberID(), today)
	if err != nil {
		return time.Time{}, err
	}
	deadline, err := m.delivery.DateLimitForDeliveryChangesInWeek(ctx, rc, today, locationID)
	if err != nil {
		return time.Time{}, err
	}
	if !today.After(deadline) {
		return today, nil
	}
	next, err := m.delivery.NextDeliveryDateAnyProduct(ctx, rc, today, locationID)
	if err != nil {
		return time.Time{}, err
	}
	return dates.AddDays(next, 1), nil
}
