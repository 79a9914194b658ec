package services

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
)

// RenewalIDPrefix marks synthesized renewals that exist only for capacity calculations.
const RenewalIDPrefix = "renewal:"

// SubscriptionFilter selects subscriptions; nil selects all.
type SubscriptionFilter func(*domain.Subscription) bool

// ForProduct selects subscriptions of one product.
func ForProduct(productID string) SubscriptionFilter {
	return func(s *domain.Subscription) bool { return s.ProductID() == productID }
}

// ForMember selects subscriptions of one member.
func ForMember(memberID string) SubscriptionFilter {
	return func(s *domain.Subscription) bool { return s.MemberID() == memberID }
}

// ExceptMember drops subscriptions of one member.
func ExceptMember(memberID string) SubscriptionFilter {
	return func(s *domain.Subscription) bool { return s.MemberID() != memberID }
}

// And combines filters; nil filters are skipped.
func And(filters ...SubscriptionFilter) SubscriptionFilter {
	return func(s *domain.Subscription) bool {
		for _, f := range filters {
			if f != nil && !f(s) {
				return false
			}
		}
		return true
	}
}

// RenewalService decides which subscriptions continue into the next growing period.
type RenewalService struct {
	params params.Provider
	trial  *TrialManager
	clock  clock.Clock
}

// NewRenewalService creates a new RenewalService.
func NewRenewalService(p params.Provider, trial *TrialManager, clk clock.Clock) *RenewalService {
	return &RenewalService{params: p, trial: trial, clock: clk}
}

// IsAutomaticRenewalEnabled reports the organisation-wide renewal switch.
func (r *RenewalService) IsAutomaticRenewalEnabled(ctx context.Context) (bool, error) {
	return r.params.Bool(ctx, params.AutomaticSubscriptionRenewal)
}

// NoticePeriodMonths returns the notice period of a subscription: its own, else the one
// configured for its product type and period, else the organisation default.
func (r *RenewalService) NoticePeriodMonths(ctx context.Context, rc *reqcache.Cache, sub *domain.Subscription) (int, error) {
	if n := sub.NoticePeriodDuration(); n != nil {
		return *n, nil
	}
	pt, err := rc.ProductTypeOf(ctx, sub.ProductID())
	if err != nil {
		return 0, err
	}
	return r.noticePeriodFor(ctx, rc, pt.ID, sub.PeriodID())
}

func (r *RenewalService) noticePeriodFor(ctx context.Context, rc *reqcache.Cache, typeID, periodID string) (int, error) {
	months, ok, err := rc.NoticePeriodMonths(ctx, typeID, periodID)
	if err != nil {
		return 0, err
	}
	if ok {
		return months, nil
	}
	return r.params.Int(ctx, params.DefaultNoticePeriodMonths)
}

// NoticeCutoffDate is the last day the subscription can be cancelled before it renews.
// Open-ended subscriptions have none.
func (r *RenewalService) NoticeCutoffDate(ctx context.Context, rc *reqcache.Cache, sub *domain.Subscription) (*time.Time, error) {
	end := sub.EndDate()
	if end == nil {
		return nil, nil
	}
	months, err := r.NoticePeriodMonths(ctx, rc, sub)
	if err != nil {
		return nil, err
	}
	cutoff := domain.NoticeCutoff(*end, months)
	return &cutoff, nil
}

// nextPeriodFor returns the growing period following the subscription's end.
func (r *RenewalService) nextPeriodFor(ctx context.Context, rc *reqcache.Cache, sub *domain.Subscription) (*domain.GrowingPeriod, error) {
	end := sub.EndDate()
	if end == nil {
		return nil, nil
	}
	periods, err := rc.GrowingPeriods(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NextGrowingPeriodAfter(periods, *end), nil
}

// hasSubscriptionInPeriod reports whether the member already subscribed the product in period.
func hasSubscriptionInPeriod(subs []*domain.Subscription, memberID, productID string, period *domain.GrowingPeriod) bool {
	for _, s := range subs {
		if s.MemberID() != memberID || s.ProductID() != productID {
			continue
		}
		if s.PeriodID() == period.ID || s.IsActiveAt(period.StartDate) {
			return true
		}
	}
	return false
}

// MustSubscriptionBeRenewed reports whether the subscription renews: renewal is enabled,
// it is not cancelled, a next period exists that has not ended, the member has no
// subscription to the product there yet, and the notice cutoff has passed.
func (r *RenewalService) MustSubscriptionBeRenewed(ctx context.Context, rc *reqcache.Cache, sub *domain.Subscription) (bool, error) {
	enabled, err := r.IsAutomaticRenewalEnabled(ctx)
	if err != nil || !enabled {
		return false, err
	}
	if sub.IsCancelled() {
		return false, nil
	}
	next, err := r.nextPeriodFor(ctx, rc, sub)
	if err != nil || next == nil {
		return false, err
	}
	today := clock.Today(r.clock)
	if next.EndDate.Before(today) {
		return false, nil
	}
	subs, err := rc.Subscriptions(ctx)
	if err != nil {
		return false, err
	}
	if hasSubscriptionInPeriod(subs, sub.MemberID(), sub.ProductID(), next) {
		return false, nil
	}
	cutoff, err := r.NoticeCutoffDate(ctx, rc, sub)
	if err != nil || cutoff == nil {
		return false, err
	}
	return cutoff.Before(today), nil
}

// RenewedSubscriptionTrialData returns the trial settings of old's successor. A trial
// still running past old's end carries over as an override; otherwise the successor
// has no trial.
func (r *RenewalService) RenewedSubscriptionTrialData(ctx context.Context, old *domain.Subscription) (domain.TrialData, error) {
	enabled, err := r.trial.IsTrialEnabled(ctx)
	if err != nil {
		return domain.TrialData{}, err
	}
	if !enabled {
		return domain.TrialData{Disabled: true}, nil
	}
	end, err := r.trial.EndOfTrialPeriod(ctx, old)
	if err != nil {
		return domain.TrialData{}, err
	}
	if end != nil && old.EndDate() != nil && end.After(*old.EndDate()) {
		return domain.TrialData{EndDateOverride: end}, nil
	}
	return domain.TrialData{Disabled: true}, nil
}

// BuildRenewedSubscription creates the successor of old in the next growing period.
// The result is not stored.
func (r *RenewalService) BuildRenewedSubscription(ctx context.Context, rc *reqcache.Cache, old *domain.Subscription, id string) (*domain.Subscription, error) {
	next, err := r.nextPeriodFor(ctx, rc, old)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}
	return r.buildInto(ctx, rc, old, id, next)
}

func (r *RenewalService) buildInto(ctx context.Context, rc *reqcache.Cache, old *domain.Subscription, id string, period *domain.GrowingPeriod) (*domain.Subscription, error) {
	trial, err := r.RenewedSubscriptionTrialData(ctx, old)
	if err != nil {
		return nil, err
	}
	pt, err := rc.ProductTypeOf(ctx, old.ProductID())
	if err != nil {
		return nil, err
	}
	months, err := r.noticePeriodFor(ctx, rc, pt.ID, period.ID)
	if err != nil {
		return nil, err
	}
	return old.Renew(id, period, trial, &months, r.clock.Now())
}

// SubscriptionsThatWillBeRenewed returns the subscriptions active at the end of the
// growing period before the one containing reference that are not cancelled and have
// no successor for the same member and product.
func (r *RenewalService) SubscriptionsThatWillBeRenewed(ctx context.Context, rc *reqcache.Cache, reference time.Time) ([]*domain.Subscription, error) {
	return reqcache.Memoize(rc, "subscriptions_that_will_be_renewed", reference, func() ([]*domain.Subscription, error) {
		enabled, err := r.IsAutomaticRenewalEnabled(ctx)
		if err != nil || !enabled {
			return nil, err
		}
		periods, err := rc.GrowingPeriods(ctx)
		if err != nil {
			return nil, err
		}
		current := domain.GrowingPeriodAt(periods, reference)
		if current == nil {
			return nil, nil
		}
		previous := domain.PreviousGrowingPeriodBefore(periods, current.StartDate)
		if previous == nil {
			return nil, nil
		}
		subs, err := rc.Subscriptions(ctx)
		if err != nil {
			return nil, err
		}
		var out []*domain.Subscription
		for _, s := range subs {
			if s.IsCancelled() || !s.IsActiveAt(previous.EndDate) {
				continue
			}
			if hasSubscriptionInPeriod(subs, s.MemberID(), s.ProductID(), current) {
				continue
			}
			out = append(out, s)
		}
		return out, nil
	})
}

// renewalsAt synthesizes the renewed subscriptions active at reference.
func (r *RenewalService) renewalsAt(ctx context.Context, rc *reqcache.Cache, reference time.Time) ([]*domain.Subscription, error) {
	return reqcache.Memoize(rc, "renewals_at", reference, func() ([]*domain.Subscription, error) {
		old, err := r.SubscriptionsThatWillBeRenewed(ctx, rc, reference)
		if err != nil || len(old) == 0 {
			return nil, err
		}
		current, err := rc.GrowingPeriodAt(ctx, reference)
		if err != nil {
			return nil, err
		}
		out := make([]*domain.Subscription, 0, len(old))
		for _, s := range old {
			renewed, err := r.buildInto(ctx, rc, s, RenewalIDPrefix+s.ID(), current)
			if err != nil {
				return nil, err
			}
			if renewed.IsActiveAt(reference) {
				out = append(out, renewed)
			}
		}
		return out, nil
	})
}

// activeAt returns the stored subscriptions active at reference.
func activeAt(ctx context.Context, rc *reqcache.Cache, reference time.Time) ([]*domain.Subscription, error) {
	return reqcache.Memoize(rc, "active_subscriptions_at", reference, func() ([]*domain.Subscription, error) {
		subs, err := rc.Subscriptions(ctx)
		if err != nil {
			return nil, err
		}
		var out []*domain.Subscription
		for _, s := range subs {
			if s.IsActiveAt(reference) {
				out = append(out, s)
			}
		}
		return out, nil
	})
}

// SubscriptionsAndRenewals returns the subscriptions active at reference plus the
// synthesized renewals active then, both narrowed by filter.
func (r *RenewalService) SubscriptionsAndRenewals(ctx context.Context, rc *reqcache.Cache, reference time.Time, filter SubscriptionFilter) ([]*domain.Subscription, error) {
	active, err := activeAt(ctx, rc, reference)
	if err != nil {
		return nil, err
	}
	renewals, err := r.renewalsAt(ctx, rc, reference)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Subscription, 0, len(active)+len(renewals))
	for _, group := range [][]*domain.Subscription{active, renewals} {
		for _, s := range group {
			if filter == nil || filter(s) {
				out = append(out, s)
			}
		}
	}
	return out, nil
}
