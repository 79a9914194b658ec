package services

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// maxCycleSearchWeeks bounds the search for a week in which a cycle delivers.
// Every legal cycle except NoDelivery delivers at least once in four weeks.
const maxCycleSearchWeeks = 5

// DeliveryCalculator answers which weeks a delivery cycle covers and when the next
// delivery at a pickup location happens.
type DeliveryCalculator struct {
	params params.Provider
}

// NewDeliveryCalculator creates a new DeliveryCalculator.
func NewDeliveryCalculator(p params.Provider) *DeliveryCalculator {
	return &DeliveryCalculator{params: p}
}

// IsCycleDeliveredInWeek reports whether products with the given cycle are delivered
// in the week containing date.
func (d *DeliveryCalculator) IsCycleDeliveredInWeek(ctx context.Context, cycle domain.DeliveryCycle, date time.Time) (bool, error) {
	switch cycle {
	case domain.NoDelivery:
		return false, nil
	case domain.Weekly:
		return true, nil
	case domain.EvenWeeks:
		return dates.IsoWeek(date)%2 == 0, nil
	case domain.OddWeeks:
		return dates.IsoWeek(date)%2 == 1, nil
	case domain.EveryFourWeeks:
		return d.IsWeekDeliveredInFourWeekRhythm(ctx, date)
	}
	return false, fmt.Errorf("%w: %s", domain.ErrUnknownDeliveryCycle, cycle)
}

// IsWeekDeliveredInFourWeekRhythm reports whether the week of date is a multiple of
// four weeks away from the configured rhythm start.
func (d *DeliveryCalculator) IsWeekDeliveredInFourWeekRhythm(ctx context.Context, date time.Time) (bool, error) {
	start, err := d.params.Date(ctx, params.DeliveryFourWeekRhythmStart)
	if err != nil {
		return false, err
	}
	weeks := dates.DaysBetween(dates.MondayOf(date), dates.MondayOf(start)) / 7
	return ((weeks%4)+4)%4 == 0, nil
}

// CyclesDeliveredInWeek lists the cycles delivered in the week of date.
func (d *DeliveryCalculator) CyclesDeliveredInWeek(ctx context.Context, date time.Time) ([]domain.DeliveryCycle, error) {
	var out []domain.DeliveryCycle
	for _, cycle := range domain.AllDeliveryCycles {
		delivered, err := d.IsCycleDeliveredInWeek(ctx, cycle, date)
		if err != nil {
			return nil, err
		}
		if delivered {
			out = append(out, cycle)
		}
	}
	return out, nil
}

// deliveryWeekday is the weekday (Monday=0) deliveries happen at a location: its first
// opening day, or the configured delivery day when unknown.
func (d *DeliveryCalculator) deliveryWeekday(ctx context.Context, rc *reqcache.Cache, locationID string) (int, error) {
	if locationID != "" {
		if _, err := rc.PickupLocation(ctx, locationID); err != nil {
			return 0, err
		}
		times, err := rc.OpeningTimes(ctx, locationID)
		if err != nil {
			return 0, err
		}
		if len(times) > 0 {
			return times[0].DayOfWeek, nil
		}
	}
	return d.params.Int(ctx, params.DeliveryDay)
}

// NextDeliveryDateAnyProduct returns the delivery date in the week of reference, or the
// one a week later if it is already past. An empty locationID uses the configured day.
func (d *DeliveryCalculator) NextDeliveryDateAnyProduct(ctx context.Context, rc *reqcache.Cache, reference time.Time, locationID string) (time.Time, error) {
	weekday, err := d.deliveryWeekday(ctx, rc, locationID)
	if err != nil {
		return time.Time{}, err
	}
	reference = dates.Truncate(reference)
	next := dates.AddDays(dates.MondayOf(reference), weekday)
	if next.Before(reference) {
		next = dates.AddWeeks(next, 1)
	}
	return next, nil
}

// NextDeliveryDateForCycle returns the next delivery date on or after reference in a
// week the cycle delivers.
func (d *DeliveryCalculator) NextDeliveryDateForCycle(ctx context.Context, rc *reqcache.Cache, reference time.Time, locationID string, cycle domain.DeliveryCycle) (time.Time, error) {
	if cycle == domain.NoDelivery {
		return time.Time{}, domain.ErrCycleNeverDelivers
	}
	next, err := d.NextDeliveryDateAnyProduct(ctx, rc, reference, locationID)
	if err != nil {
		return time.Time{}, err
	}
	for i := 0; i < maxCycleSearchWeeks; i++ {
		delivered, err := d.IsCycleDeliveredInWeek(ctx, cycle, next)
		if err != nil {
			return time.Time{}, err
		}
		if delivered {
			return next, nil
		}
		next, err = d.NextDeliveryDateAnyProduct(ctx, rc, dates.AddDays(next, 1), locationID)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s", domain.ErrCycleNeverDelivers, cycle)
}

// DateLimitForDeliveryChangesInWeek is the last day on which changes still apply to the
// next delivery after reference.
func (d *DeliveryCalculator) DateLimitForDeliveryChangesInWeek(ctx context.Context, rc *reqcache.Cache, reference time.Time, locationID string) (time.Time, error) {
	next, err := d.NextDeliveryDateAnyProduct(ctx, rc, reference, locationID)
	if err != nil {
		return time.Time{}, err
	}
	limit, err := d.params.Int(ctx, params.DeliveryChangeWeekdayLimit)
	if err != nil {
		return time.Time{}, err
	}
	offset := ((dates.Weekday(next)-limit)%7 + 7) % 7
	return dates.AddDays(next, -offset), nil
}
