package services

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// maxContractStartSearchWeeks bounds NextContractStartDate. The deadline moves forward
// one week per step, so any finite buffer is reached long before.
const maxContractStartSearchWeeks = 520

// ContractStartCalculator computes when new or changed contracts may start.
type ContractStartCalculator struct {
	params   params.Provider
	delivery *DeliveryCalculator
	clock    clock.Clock
}

// NewContractStartCalculator creates a new ContractStartCalculator.
func NewContractStartCalculator(p params.Provider, delivery *DeliveryCalculator, clk clock.Clock) *ContractStartCalculator {
	return &ContractStartCalculator{params: p, delivery: delivery, clock: clk}
}

// CanContractStartOnDate reports whether the change deadline of date's week, minus the
// configured buffer, is still ahead of or equal to today.
func (c *ContractStartCalculator) CanContractStartOnDate(ctx context.Context, rc *reqcache.Cache, date time.Time) (bool, error) {
	deadline, err := c.delivery.DateLimitForDeliveryChangesInWeek(ctx, rc, date, "")
	if err != nil {
		return false, err
	}
	buffer, err := c.params.Int(ctx, params.ContractStartBufferDays)
	if err != nil {
		return false, err
	}
	return !dates.AddDays(deadline, -buffer).Before(clock.Today(c.clock)), nil
}

// NextContractStartDate returns the first Monday, starting with the Monday of reference's
// week, on which a contract can start.
func (c *ContractStartCalculator) NextContractStartDate(ctx context.Context, rc *reqcache.Cache, reference time.Time) (time.Time, error) {
	date := dates.MondayOf(reference)
	for i := 0; i < maxContractStartSearchWeeks; i++ {
		ok, err := c.CanContractStartOnDate(ctx, rc, date)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return date, nil
		}
		date = dates.AddWeeks(date, 1)
	}
	return time.Time{}, domain.ErrNoContractStartInReach
}
