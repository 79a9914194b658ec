package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

var hundred = decimal.NewFromInt(100)

// SolidarityValidator admits below-standard prices against the pool funded by members
// paying above standard.
type SolidarityValidator struct {
	params params.Provider
}

// NewSolidarityValidator creates a new SolidarityValidator.
func NewSolidarityValidator(p params.Provider) *SolidarityValidator {
	return &SolidarityValidator{params: p}
}

// SolidarityExcess sums the positive monthly solidarity contributions of all active and
// future subscriptions at reference, except those of excludeMemberID. Below-standard
// subscriptions do not shrink the pool. Percentages are converted with the price valid
// when the subscription is active.
func (v *SolidarityValidator) SolidarityExcess(ctx context.Context, rc *reqcache.Cache, reference time.Time, excludeMemberID string) (domain.Money, error) {
	subs, err := rc.Subscriptions(ctx)
	if err != nil {
		return domain.Money{}, err
	}
	total := domain.Money{}
	for _, s := range subs {
		if excludeMemberID != "" && s.MemberID() == excludeMemberID {
			continue
		}
		if !s.IsActiveOrFutureAt(reference) {
			continue
		}
		priceDate := dates.Max(reference, s.StartDate())
		price, err := rc.PriceAt(ctx, s.ProductID(), priceDate)
		if err != nil {
			return domain.Money{}, err
		}
		if c := s.SolidarityContribution(price.Price); c.IsPositive() {
			total = total.Add(c)
		}
	}
	return total, nil
}

// MonthlyPrice is the standard monthly price of the order at date.
func MonthlyPrice(ctx context.Context, rc *reqcache.Cache, order *domain.Order, date time.Time) (domain.Money, error) {
	total := domain.Money{}
	for _, line := range order.Lines() {
		price, err := rc.PriceAt(ctx, line.ProductID, date)
		if err != nil {
			return domain.Money{}, err
		}
		total = total.Add(price.Price.MultiplyByInt(line.Quantity))
	}
	return total, nil
}

// RequestedAmount is the monthly amount a request draws from the pool (positive for
// below-standard requests).
func (v *SolidarityValidator) RequestedAmount(ctx context.Context, rc *reqcache.Cache, order *domain.Order, request domain.SolidarityRequest, start time.Time) (domain.Money, error) {
	if request.Absolute != nil {
		return request.Absolute.Negate(), nil
	}
	if request.Percentage == nil {
		return domain.Money{}, nil
	}
	monthly, err := MonthlyPrice(ctx, rc, order, start)
	if err != nil {
		return domain.Money{}, err
	}
	return monthly.MultiplyBy(request.Percentage.Neg().Div(hundred)), nil
}

// AcceptsUnit reports whether the request is given in the configured solidarity unit.
func (v *SolidarityValidator) AcceptsUnit(ctx context.Context, request domain.SolidarityRequest) (bool, error) {
	if !request.HasAdjustment() {
		return true, nil
	}
	unit, err := params.GetSolidarityUnit(ctx, v.params)
	if err != nil {
		return false, err
	}
	switch unit {
	case domain.SolidarityUnitPercent:
		return request.Percentage != nil, nil
	case domain.SolidarityUnitAbsolute:
		return request.Absolute != nil, nil
	}
	return false, domain.ErrUnknownSolidarityUnit
}

// IsSolidarityRequestAllowed applies the configured solidarity mode. Requests at or above
// standard price are always allowed.
func (v *SolidarityValidator) IsSolidarityRequestAllowed(ctx context.Context, rc *reqcache.Cache, order *domain.Order, request domain.SolidarityRequest, memberID string, start time.Time) (bool, error) {
	if !request.IsNegative() {
		return true, nil
	}
	mode, err := params.GetSolidarityMode(ctx, v.params)
	if err != nil {
		return false, err
	}
	switch mode {
	case domain.SolidarityOnlyPositive:
		return false, nil
	case domain.SolidarityNegativeAlwaysAllowed:
		return true, nil
	case domain.SolidarityNegativeAllowedIfEnoughPositive:
		requested, err := v.RequestedAmount(ctx, rc, order, request, start)
		if err != nil {
			return false, err
		}
		excess, err := v.SolidarityExcess(ctx, rc, start, memberID)
		if err != nil {
			return false, err
		}
		return !requested.GreaterThan(excess), nil
	}
	return false, domain.ErrUnknownSolidarityMode
}
