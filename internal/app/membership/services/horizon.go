package services

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// maxHorizonWeeks caps the capacity scan, whatever the stored data says.
const maxHorizonWeeks = 260

// LastCapacityChangeDate is the last date at which used or available capacity can
// change: the latest growing-period end, subscription start or end, or pickup-location
// change.
func LastCapacityChangeDate(ctx context.Context, rc *reqcache.Cache) (time.Time, error) {
	return reqcache.Memoize(rc, "last_capacity_change_date", struct{}{}, func() (time.Time, error) {
		var last time.Time
		periods, err := rc.GrowingPeriods(ctx)
		if err != nil {
			return last, err
		}
		for _, gp := range periods {
			last = dates.Max(last, gp.EndDate)
		}
		subs, err := rc.Subscriptions(ctx)
		if err != nil {
			return last, err
		}
		for _, s := range subs {
			last = dates.Max(last, s.StartDate())
			if end := s.EndDate(); end != nil {
				last = dates.Max(last, *end)
			}
		}
		timeline, err := rc.MemberPickupLocations(ctx)
		if err != nil {
			return last, err
		}
		for _, mpl := range timeline {
			last = dates.Max(last, mpl.ValidFrom)
		}
		return last, nil
	})
}

// Horizon lists the dates a capacity scan from reference visits: reference itself and
// every following Monday up to LastCapacityChangeDate.
func Horizon(ctx context.Context, rc *reqcache.Cache, reference time.Time) ([]time.Time, error) {
	reference = dates.Truncate(reference)
	return reqcache.Memoize(rc, "horizon", reference, func() ([]time.Time, error) {
		last, err := LastCapacityChangeDate(ctx, rc)
		if err != nil {
			return nil, err
		}
		out := []time.Time{reference}
		for d := dates.NextMonday(reference); !d.After(last) && len(out) <= maxHorizonWeeks; d = dates.AddWeeks(d, 1) {
			out = append(out, d)
		}
		return out, nil
	})
}
