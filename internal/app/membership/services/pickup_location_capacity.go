package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
)

// PickupLocationCapacityChecker checks whether an order fits into a pickup location,
// either by product-type shares or by basket sizes depending on the picking mode.
type PickupLocationCapacityChecker struct {
	params  params.Provider
	renewal *RenewalService
}

// NewPickupLocationCapacityChecker creates a new PickupLocationCapacityChecker.
func NewPickupLocationCapacityChecker(p params.Provider, renewal *RenewalService) *PickupLocationCapacityChecker {
	return &PickupLocationCapacityChecker{params: p, renewal: renewal}
}

// CheckCapacity dispatches on the configured picking mode.
func (c *PickupLocationCapacityChecker) CheckCapacity(ctx context.Context, rc *reqcache.Cache, locationID string, order *domain.Order, memberID string, reference time.Time) (bool, error) {
	if _, err := rc.PickupLocation(ctx, locationID); err != nil {
		return false, err
	}
	mode, err := params.GetPickingMode(ctx, c.params)
	if err != nil {
		return false, err
	}
	switch mode {
	case domain.PickingModeShare:
		return c.CheckForPickingModeShare(ctx, rc, locationID, order, memberID, reference)
	case domain.PickingModeBasket:
		return c.CheckForPickingModeBasket(ctx, rc, locationID, order, memberID, reference)
	}
	return false, domain.ErrUnknownPickingMode
}

// subscriptionsAtLocation returns the subscriptions and renewals at date whose member is
// assigned to locationID then, leaving out memberID.
func (c *PickupLocationCapacityChecker) subscriptionsAtLocation(ctx context.Context, rc *reqcache.Cache, locationID, memberID string, date time.Time) ([]*domain.Subscription, error) {
	subs, err := c.renewal.SubscriptionsAndRenewals(ctx, rc, date, nil)
	if err != nil {
		return nil, err
	}
	byMember, err := rc.MemberPickupLocationsAt(ctx, date)
	if err != nil {
		return nil, err
	}
	var out []*domain.Subscription
	for _, s := range subs {
		if memberID != "" && s.MemberID() == memberID {
			continue
		}
		if byMember[s.MemberID()] == locationID {
			out = append(out, s)
		}
	}
	return out, nil
}

// excludedMember returns memberID if the member is already assigned to locationID, so
// they are not counted against their own location.
func (c *PickupLocationCapacityChecker) excludedMember(ctx context.Context, rc *reqcache.Cache, locationID, memberID string, reference time.Time) (string, error) {
	if memberID == "" {
		return "", nil
	}
	at, ok, err := rc.MemberPickupLocationAt(ctx, memberID, reference)
	if err != nil {
		return "", err
	}
	if ok && at == locationID {
		return memberID, nil
	}
	return "", nil
}

func capabilityFor(caps []*domain.PickupLocationCapability, locationID, typeID string) *domain.PickupLocationCapability {
	for _, c := range caps {
		if c.PickupLocationID == locationID && c.ProductTypeID == typeID {
			return c
		}
	}
	return nil
}

// CheckForPickingModeShare checks each delivered product type of the order against the
// location's per-type ceiling over the whole horizon. A location that does not serve a
// type rejects it.
func (c *PickupLocationCapacityChecker) CheckForPickingModeShare(ctx context.Context, rc *reqcache.Cache, locationID string, order *domain.Order, memberID string, reference time.Time) (bool, error) {
	ordered, typeIDs, err := orderedSizeByType(ctx, rc, order, reference)
	if err != nil {
		return false, err
	}
	caps, err := rc.Capabilities(ctx)
	if err != nil {
		return false, err
	}
	excluded, err := c.excludedMember(ctx, rc, locationID, memberID, reference)
	if err != nil {
		return false, err
	}
	horizon, err := Horizon(ctx, rc, reference)
	if err != nil {
		return false, err
	}

	for _, typeID := range typeIDs {
		pt, err := rc.ProductType(ctx, typeID)
		if err != nil {
			return false, err
		}
		if !pt.NeedsDelivery() {
			continue
		}
		capability := capabilityFor(caps, locationID, typeID)
		if capability == nil {
			return false, nil
		}
		if capability.MaxCapacity == nil {
			continue
		}
		for _, date := range horizon {
			subs, err := c.subscriptionsAtLocation(ctx, rc, locationID, excluded, date)
			if err != nil {
				return false, err
			}
			used := decimal.Zero
			for _, s := range subs {
				p, err := rc.Product(ctx, s.ProductID())
				if err != nil {
					return false, err
				}
				if p.TypeID != typeID {
					continue
				}
				size, err := subscriptionSize(ctx, rc, s, date)
				if err != nil {
					return false, err
				}
				used = used.Add(size)
			}
			if !domain.Limited(capability.MaxCapacity.Sub(used)).Covers(ordered[typeID]) {
				return false, nil
			}
		}
	}
	return true, nil
}

// basketsByProduct maps products to the baskets of each size one unit takes.
func basketsByProduct(equivalences []*domain.ProductBasketSizeEquivalence) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, e := range equivalences {
		if out[e.ProductID] == nil {
			out[e.ProductID] = make(map[string]int)
		}
		out[e.ProductID][e.BasketSizeID] += e.Quantity
	}
	return out
}

// CheckForPickingModeBasket checks the baskets the order needs per basket size against
// the location's basket capacity over the whole horizon. Sizes without a configured
// capacity are unlimited.
func (c *PickupLocationCapacityChecker) CheckForPickingModeBasket(ctx context.Context, rc *reqcache.Cache, locationID string, order *domain.Order, memberID string, reference time.Time) (bool, error) {
	equivalences, err := rc.BasketSizeEquivalences(ctx)
	if err != nil {
		return false, err
	}
	baskets := basketsByProduct(equivalences)

	ordered := make(map[string]int)
	for _, line := range order.Lines() {
		for size, n := range baskets[line.ProductID] {
			ordered[size] += n * line.Quantity
		}
	}

	capacities, err := rc.BasketCapacities(ctx)
	if err != nil {
		return false, err
	}
	limits := make(map[string]int)
	for _, bc := range capacities {
		if bc.PickupLocationID == locationID && bc.Capacity != nil {
			limits[bc.BasketSizeID] = *bc.Capacity
		}
	}

	excluded, err := c.excludedMember(ctx, rc, locationID, memberID, reference)
	if err != nil {
		return false, err
	}
	horizon, err := Horizon(ctx, rc, reference)
	if err != nil {
		return false, err
	}
	for _, date := range horizon {
		subs, err := c.subscriptionsAtLocation(ctx, rc, locationID, excluded, date)
		if err != nil {
			return false, err
		}
		used := make(map[string]int)
		for _, s := range subs {
			for size, n := range baskets[s.ProductID()] {
				used[size] += n * s.Quantity()
			}
		}
		for size, needed := range ordered {
			limit, ok := limits[size]
			if !ok || needed == 0 {
				continue
			}
			if limit-used[size] < needed {
				return false, nil
			}
		}
	}
	return true, nil
}
