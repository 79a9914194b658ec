package services

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
)

type productDateKey struct {
	productID string
	date      time.Time
}

// ProductCapacityChecker enforces the flat per-product unit ceiling.
type ProductCapacityChecker struct {
	renewal *RenewalService
}

// NewProductCapacityChecker creates a new ProductCapacityChecker.
func NewProductCapacityChecker(renewal *RenewalService) *ProductCapacityChecker {
	return &ProductCapacityChecker{renewal: renewal}
}

// UsedQuantityAtDate sums the quantities of subscriptions and renewals of the product at date.
func (c *ProductCapacityChecker) UsedQuantityAtDate(ctx context.Context, rc *reqcache.Cache, productID string, date time.Time) (int, error) {
	return reqcache.Memoize(rc, "product_used_quantity", productDateKey{productID, date}, func() (int, error) {
		subs, err := c.renewal.SubscriptionsAndRenewals(ctx, rc, date, ForProduct(productID))
		if err != nil {
			return 0, err
		}
		used := 0
		for _, s := range subs {
			used += s.Quantity()
		}
		return used, nil
	})
}

// HighestUsageAfterDate is the maximum used quantity over the horizon from reference.
func (c *ProductCapacityChecker) HighestUsageAfterDate(ctx context.Context, rc *reqcache.Cache, productID string, reference time.Time) (int, error) {
	horizon, err := Horizon(ctx, rc, reference)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, date := range horizon {
		used, err := c.UsedQuantityAtDate(ctx, rc, productID, date)
		if err != nil {
			return 0, err
		}
		if used > highest {
			highest = used
		}
	}
	return highest, nil
}

// FreeCapacityAfterDate is the product capacity minus its highest usage from reference.
func (c *ProductCapacityChecker) FreeCapacityAfterDate(ctx context.Context, rc *reqcache.Cache, productID string, reference time.Time) (domain.Capacity, error) {
	p, err := rc.Product(ctx, productID)
	if err != nil {
		return domain.Capacity{}, err
	}
	if p.Capacity == nil {
		return domain.Unlimited(), nil
	}
	highest, err := c.HighestUsageAfterDate(ctx, rc, productID, reference)
	if err != nil {
		return domain.Capacity{}, err
	}
	return domain.LimitedInt(*p.Capacity - highest), nil
}

// DoesProductHaveEnoughFreeCapacity reports whether quantity more units fit, adding back
// what memberID already holds of the product at reference.
func (c *ProductCapacityChecker) DoesProductHaveEnoughFreeCapacity(ctx context.Context, rc *reqcache.Cache, productID string, quantity int, reference time.Time, memberID string) (bool, error) {
	p, err := rc.Product(ctx, productID)
	if err != nil {
		return false, err
	}
	if p.Capacity == nil {
		return true, nil
	}
	highest, err := c.HighestUsageAfterDate(ctx, rc, productID, reference)
	if err != nil {
		return false, err
	}
	own := 0
	if memberID != "" {
		subs, err := c.renewal.SubscriptionsAndRenewals(ctx, rc, reference, And(ForProduct(productID), ForMember(memberID)))
		if err != nil {
			return false, err
		}
		for _, s := range subs {
			own += s.Quantity()
		}
	}
	return *p.Capacity-highest-quantity+own >= 0, nil
}
