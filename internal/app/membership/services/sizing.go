package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
)

// subscriptionSize is the capacity a subscription takes at date: its quantity times the
// size of the product's price valid at date.
func subscriptionSize(ctx context.Context, rc *reqcache.Cache, sub *domain.Subscription, date time.Time) (decimal.Decimal, error) {
	return productSize(ctx, rc, sub.ProductID(), sub.Quantity(), date)
}

func productSize(ctx context.Context, rc *reqcache.Cache, productID string, quantity int, date time.Time) (decimal.Decimal, error) {
	price, err := rc.PriceAt(ctx, productID, date)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Size.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// orderedSizeByType sums the ordered size per product type.
func orderedSizeByType(ctx context.Context, rc *reqcache.Cache, order *domain.Order, date time.Time) (map[string]decimal.Decimal, []string, error) {
	out := make(map[string]decimal.Decimal)
	var typeIDs []string
	for _, line := range order.Lines() {
		p, err := rc.Product(ctx, line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		size, err := productSize(ctx, rc, line.ProductID, line.Quantity, date)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := out[p.TypeID]; !seen {
			typeIDs = append(typeIDs, p.TypeID)
		}
		out[p.TypeID] = out[p.TypeID].Add(size)
	}
	return out, typeIDs, nil
}

// subscriptionsOfType narrows SubscriptionsAndRenewals at date to one product type.
func subscriptionsOfType(ctx context.Context, rc *reqcache.Cache, renewal *RenewalService, typeID string, date time.Time, filter SubscriptionFilter) ([]*domain.Subscription, error) {
	subs, err := renewal.SubscriptionsAndRenewals(ctx, rc, date, filter)
	if err != nil {
		return nil, err
	}
	var out []*domain.Subscription
	for _, s := range subs {
		p, err := rc.Product(ctx, s.ProductID())
		if err != nil {
			return nil, err
		}
		if p.TypeID == typeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func sumSizes(ctx context.Context, rc *reqcache.Cache, subs []*domain.Subscription, date time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range subs {
		size, err := subscriptionSize(ctx, rc, s, date)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(size)
	}
	return total, nil
}
