package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
)

// TypeCapacityCheck is the outcome of the capacity check for one product type of an order.
type TypeCapacityCheck struct {
	ProductTypeID string
	Free          domain.Capacity
	Ordered       decimal.Decimal
	Current       decimal.Decimal
	WaitingList   decimal.Decimal
	Enough        bool
}

// Needed is the capacity the order claims beyond what the member holds already.
func (c TypeCapacityCheck) Needed() decimal.Decimal {
	return c.Ordered.Sub(c.Current).Add(c.WaitingList)
}

// GlobalCapacityChecker checks every product type of an order against its lowest free
// capacity from the contract start on.
type GlobalCapacityChecker struct {
	renewal     *RenewalService
	productType *ProductTypeCapacityCalculator
}

// NewGlobalCapacityChecker creates a new GlobalCapacityChecker.
func NewGlobalCapacityChecker(renewal *RenewalService, productType *ProductTypeCapacityCalculator) *GlobalCapacityChecker {
	return &GlobalCapacityChecker{renewal: renewal, productType: productType}
}

// HasEnoughFreeCapacity reports free >= ordered - current + waitingList.
func HasEnoughFreeCapacity(free domain.Capacity, ordered, current, waitingList decimal.Decimal) bool {
	return free.Covers(ordered.Sub(current).Add(waitingList))
}

// CheckOrder checks each product type of the order independently. Waiting-list
// reservations of other people are only subtracted when checkWaitingList is set.
func (g *GlobalCapacityChecker) CheckOrder(ctx context.Context, rc *reqcache.Cache, order *domain.Order, memberID string, start time.Time, checkWaitingList bool) ([]TypeCapacityCheck, error) {
	ordered, typeIDs, err := orderedSizeByType(ctx, rc, order, start)
	if err != nil {
		return nil, err
	}

	checks := make([]TypeCapacityCheck, 0, len(typeIDs))
	for _, typeID := range typeIDs {
		check := TypeCapacityCheck{ProductTypeID: typeID, Ordered: ordered[typeID]}

		if memberID != "" {
			own, err := subscriptionsOfType(ctx, rc, g.renewal, typeID, start, ForMember(memberID))
			if err != nil {
				return nil, err
			}
			if check.Current, err = sumSizes(ctx, rc, own, start); err != nil {
				return nil, err
			}
		}
		if checkWaitingList {
			if check.WaitingList, err = g.waitingListReservedSize(ctx, rc, typeID, memberID, start); err != nil {
				return nil, err
			}
		}
		if check.Free, err = g.productType.LowestFreeCapacityAfterDate(ctx, rc, typeID, start); err != nil {
			return nil, err
		}
		check.Enough = HasEnoughFreeCapacity(check.Free, check.Ordered, check.Current, check.WaitingList)
		checks = append(checks, check)
	}
	return checks, nil
}

// DoesOrderHaveEnoughCapacity reports whether every product type of the order fits.
func (g *GlobalCapacityChecker) DoesOrderHaveEnoughCapacity(ctx context.Context, rc *reqcache.Cache, order *domain.Order, memberID string, start time.Time, checkWaitingList bool) (bool, error) {
	checks, err := g.CheckOrder(ctx, rc, order, memberID, start, checkWaitingList)
	if err != nil {
		return false, err
	}
	for _, c := range checks {
		if !c.Enough {
			return false, nil
		}
	}
	return true, nil
}

// waitingListReservedSize sums the sizes wished for on the waiting list for the type,
// ignoring the entries of memberID.
func (g *GlobalCapacityChecker) waitingListReservedSize(ctx context.Context, rc *reqcache.Cache, typeID, memberID string, date time.Time) (decimal.Decimal, error) {
	entries, err := rc.WaitingListEntries(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		if memberID != "" && e.MemberID == memberID {
			continue
		}
		for _, wish := range e.ProductWishes {
			p, err := rc.Product(ctx, wish.ProductID)
			if err != nil {
				return decimal.Zero, err
			}
			if p.TypeID != typeID {
				continue
			}
			size, err := productSize(ctx, rc, wish.ProductID, wish.Quantity, date)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(size)
		}
	}
	return total, nil
}
