package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
)

type typeDateKey struct {
	typeID string
	date   time.Time
}

// ProductTypeCapacityCalculator computes price-size weighted capacity of product types.
type ProductTypeCapacityCalculator struct {
	renewal *RenewalService
}

// NewProductTypeCapacityCalculator creates a new ProductTypeCapacityCalculator.
func NewProductTypeCapacityCalculator(renewal *RenewalService) *ProductTypeCapacityCalculator {
	return &ProductTypeCapacityCalculator{renewal: renewal}
}

// UsedCapacityAtDate sums the sizes of all subscriptions and renewals of the type
// active at date.
func (c *ProductTypeCapacityCalculator) UsedCapacityAtDate(ctx context.Context, rc *reqcache.Cache, typeID string, date time.Time) (decimal.Decimal, error) {
	return reqcache.Memoize(rc, "product_type_used_capacity", typeDateKey{typeID, date}, func() (decimal.Decimal, error) {
		subs, err := subscriptionsOfType(ctx, rc, c.renewal, typeID, date, nil)
		if err != nil {
			return decimal.Zero, err
		}
		return sumSizes(ctx, rc, subs, date)
	})
}

// TotalCapacityAtDate is the configured capacity of the type in the growing period
// containing date; unlimited outside periods or when not configured.
func (c *ProductTypeCapacityCalculator) TotalCapacityAtDate(ctx context.Context, rc *reqcache.Cache, typeID string, date time.Time) (domain.Capacity, error) {
	period, err := rc.GrowingPeriodAt(ctx, date)
	if err != nil {
		return domain.Capacity{}, err
	}
	if period == nil {
		return domain.Unlimited(), nil
	}
	return rc.ProductTypeCapacity(ctx, typeID, period.ID)
}

// FreeCapacityAtDate is total minus used capacity at date.
func (c *ProductTypeCapacityCalculator) FreeCapacityAtDate(ctx context.Context, rc *reqcache.Cache, typeID string, date time.Time) (domain.Capacity, error) {
	total, err := c.TotalCapacityAtDate(ctx, rc, typeID, date)
	if err != nil || total.IsUnlimited() {
		return total, err
	}
	used, err := c.UsedCapacityAtDate(ctx, rc, typeID, date)
	if err != nil {
		return domain.Capacity{}, err
	}
	return total.Sub(used), nil
}

// LowestFreeCapacityAfterDate is the minimum free capacity over the horizon from reference.
func (c *ProductTypeCapacityCalculator) LowestFreeCapacityAfterDate(ctx context.Context, rc *reqcache.Cache, typeID string, reference time.Time) (domain.Capacity, error) {
	return reqcache.Memoize(rc, "product_type_lowest_free_capacity", typeDateKey{typeID, reference}, func() (domain.Capacity, error) {
		horizon, err := Horizon(ctx, rc, reference)
		if err != nil {
			return domain.Capacity{}, err
		}
		lowest := domain.Unlimited()
		for _, date := range horizon {
			free, err := c.FreeCapacityAtDate(ctx, rc, typeID, date)
			if err != nil {
				return domain.Capacity{}, err
			}
			lowest = lowest.Min(free)
		}
		return lowest, nil
	})
}
