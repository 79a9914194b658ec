package services

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
)

// SizeReductionValidator keeps members from shrinking a contract during a running
// growing period.
type SizeReductionValidator struct{}

// NewSizeReductionValidator creates a new SizeReductionValidator.
func NewSizeReductionValidator() *SizeReductionValidator {
	return &SizeReductionValidator{}
}

// ValidateCannotReduceSize reports whether the ordered size of typeID is at least the size
// the member holds at reference. Admins and dates outside growing periods are exempt.
func (v *SizeReductionValidator) ValidateCannotReduceSize(ctx context.Context, rc *reqcache.Cache, isAdmin bool, memberID, typeID string, order *domain.Order, reference time.Time) (bool, error) {
	if isAdmin || memberID == "" {
		return true, nil
	}
	period, err := rc.GrowingPeriodAt(ctx, reference)
	if err != nil || period == nil {
		return true, err
	}

	subs, err := rc.Subscriptions(ctx)
	if err != nil {
		return false, err
	}
	var current []*domain.Subscription
	for _, s := range subs {
		if s.MemberID() != memberID || !s.IsActiveAt(reference) {
			continue
		}
		p, err := rc.Product(ctx, s.ProductID())
		if err != nil {
			return false, err
		}
		if p.TypeID == typeID {
			current = append(current, s)
		}
	}
	currentSize, err := sumSizes(ctx, rc, current, reference)
	if err != nil {
		return false, err
	}
	ordered, _, err := orderedSizeByType(ctx, rc, order, reference)
	if err != nil {
		return false, err
	}
	return !ordered[typeID].LessThan(currentSize), nil
}
