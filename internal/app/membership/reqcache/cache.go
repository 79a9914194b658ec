// Package reqcache memoizes store lookups and derived values for the duration of one
// request. A Cache must not outlive the request it was created for and is not safe
// for concurrent use.
package reqcache

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
)

type lazy[T any] struct {
	loaded bool
	value  T
}

func (l *lazy[T]) get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	if l.loaded {
		return l.value, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.value = v
	l.loaded = true
	return v, nil
}

type memoKey struct {
	name string
	key  any
}

type priceKey struct {
	productID string
	date      time.Time
}

// Cache is a request-scoped snapshot of the store.
type Cache struct {
	store contracts.Store

	subscriptions          lazy[[]*domain.Subscription]
	productTypes           lazy[map[string]*domain.ProductType]
	productTypeList        lazy[[]*domain.ProductType]
	products               lazy[map[string]*domain.Product]
	productList            lazy[[]*domain.Product]
	pricesByProduct        lazy[map[string][]*domain.ProductPrice]
	productCapacities      lazy[[]*domain.ProductCapacity]
	growingPeriods         lazy[[]*domain.GrowingPeriod]
	noticePeriods          lazy[[]*domain.NoticePeriod]
	pickupLocations        lazy[map[string]*domain.PickupLocation]
	openingTimes           lazy[map[string][]*domain.PickupLocationOpeningTime]
	capabilities           lazy[[]*domain.PickupLocationCapability]
	basketCapacities       lazy[[]*domain.PickupLocationBasketCapacity]
	basketSizeEquivalences lazy[[]*domain.ProductBasketSizeEquivalence]
	memberPickupLocations  lazy[[]*domain.MemberPickupLocation]
	waitingList            lazy[[]*domain.WaitingListEntry]

	memo map[memoKey]any
}

// New creates an empty cache over store.
func New(store contracts.Store) *Cache {
	return &Cache{store: store, memo: make(map[memoKey]any)}
}

// Memoize returns the value computed by fn for (name, key), calling fn at most once
// per cache. Errors are not memoized.
func Memoize[K comparable, V any](c *Cache, name string, key K, fn func() (V, error)) (V, error) {
	mk := memoKey{name: name, key: key}
	if v, ok := c.memo[mk]; ok {
		return v.(V), nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.memo[mk] = v
	return v, nil
}

// Subscriptions returns every stored subscription.
func (c *Cache) Subscriptions(ctx context.Context) ([]*domain.Subscription, error) {
	return c.subscriptions.get(ctx, c.store.ListSubscriptions)
}

// ProductTypes returns all product types.
func (c *Cache) ProductTypes(ctx context.Context) ([]*domain.ProductType, error) {
	return c.productTypeList.get(ctx, c.store.ListProductTypes)
}

// ProductType returns a product type by ID.
func (c *Cache) ProductType(ctx context.Context, id string) (*domain.ProductType, error) {
	byID, err := c.productTypes.get(ctx, func(ctx context.Context) (map[string]*domain.ProductType, error) {
		list, err := c.ProductTypes(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string]*domain.ProductType, len(list))
		for _, pt := range list {
			m[pt.ID] = pt
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	pt, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductTypeNotFound, id)
	}
	return pt, nil
}

// Products returns all products, including deleted ones.
func (c *Cache) Products(ctx context.Context) ([]*domain.Product, error) {
	return c.productList.get(ctx, c.store.ListProducts)
}

// Product returns a product by ID.
func (c *Cache) Product(ctx context.Context, id string) (*domain.Product, error) {
	byID, err := c.products.get(ctx, func(ctx context.Context) (map[string]*domain.Product, error) {
		list, err := c.Products(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string]*domain.Product, len(list))
		for _, p := range list {
			m[p.ID] = p
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	p, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return p, nil
}

// ProductTypeOf returns the type of a product.
func (c *Cache) ProductTypeOf(ctx context.Context, productID string) (*domain.ProductType, error) {
	p, err := c.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	return c.ProductType(ctx, p.TypeID)
}

// ProductsOfType returns the non-deleted products of a type.
func (c *Cache) ProductsOfType(ctx context.Context, typeID string) ([]*domain.Product, error) {
	return Memoize(c, "products_of_type", typeID, func() ([]*domain.Product, error) {
		all, err := c.Products(ctx)
		if err != nil {
			return nil, err
		}
		var out []*domain.Product
		for _, p := range all {
			if p.TypeID == typeID && !p.Deleted {
				out = append(out, p)
			}
		}
		return out, nil
	})
}

// ProductPrices returns the price history of a product.
func (c *Cache) ProductPrices(ctx context.Context, productID string) ([]*domain.ProductPrice, error) {
	byProduct, err := c.pricesByProduct.get(ctx, func(ctx context.Context) (map[string][]*domain.ProductPrice, error) {
		list, err := c.store.ListProductPrices(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string][]*domain.ProductPrice)
		for _, p := range list {
			m[p.ProductID] = append(m[p.ProductID], p)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return byProduct[productID], nil
}

// PriceAt resolves the price of a product valid at date.
func (c *Cache) PriceAt(ctx context.Context, productID string, date time.Time) (*domain.ProductPrice, error) {
	return Memoize(c, "price_at", priceKey{productID: productID, date: date}, func() (*domain.ProductPrice, error) {
		prices, err := c.ProductPrices(ctx, productID)
		if err != nil {
			return nil, err
		}
		p := domain.PriceAt(prices, date)
		if p == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoProductPrice, productID)
		}
		return p, nil
	})
}

// ProductCapacities returns all type-level capacities.
func (c *Cache) ProductCapacities(ctx context.Context) ([]*domain.ProductCapacity, error) {
	return c.productCapacities.get(ctx, c.store.ListProductCapacities)
}

// ProductTypeCapacity is the capacity of a product type in a growing period;
// unconfigured means unlimited.
func (c *Cache) ProductTypeCapacity(ctx context.Context, typeID, periodID string) (domain.Capacity, error) {
	caps, err := c.ProductCapacities(ctx)
	if err != nil {
		return domain.Capacity{}, err
	}
	for _, pc := range caps {
		if pc.ProductTypeID == typeID && pc.PeriodID == periodID {
			return domain.Limited(pc.Capacity), nil
		}
	}
	return domain.Unlimited(), nil
}

// GrowingPeriods returns all growing periods ordered by start date.
func (c *Cache) GrowingPeriods(ctx context.Context) ([]*domain.GrowingPeriod, error) {
	return c.growingPeriods.get(ctx, func(ctx context.Context) ([]*domain.GrowingPeriod, error) {
		list, err := c.store.ListGrowingPeriods(ctx)
		if err != nil {
			return nil, err
		}
		sorted := make([]*domain.GrowingPeriod, len(list))
		copy(sorted, list)
		domain.SortGrowingPeriods(sorted)
		return sorted, nil
	})
}

// GrowingPeriodAt returns the period containing date, or nil.
func (c *Cache) GrowingPeriodAt(ctx context.Context, date time.Time) (*domain.GrowingPeriod, error) {
	periods, err := c.GrowingPeriods(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GrowingPeriodAt(periods, date), nil
}

// GrowingPeriod returns a period by ID, or nil.
func (c *Cache) GrowingPeriod(ctx context.Context, id string) (*domain.GrowingPeriod, error) {
	periods, err := c.GrowingPeriods(ctx)
	if err != nil {
		return nil, err
	}
	for _, gp := range periods {
		if gp.ID == id {
			return gp, nil
		}
	}
	return nil, nil
}

// NoticePeriodMonths returns the configured notice period for (type, period).
func (c *Cache) NoticePeriodMonths(ctx context.Context, typeID, periodID string) (int, bool, error) {
	list, err := c.noticePeriods.get(ctx, c.store.ListNoticePeriods)
	if err != nil {
		return 0, false, err
	}
	for _, np := range list {
		if np.ProductTypeID == typeID && np.PeriodID == periodID {
			return np.DurationMonths, true, nil
		}
	}
	return 0, false, nil
}

// PickupLocations returns all pickup locations.
func (c *Cache) PickupLocations(ctx context.Context) (map[string]*domain.PickupLocation, error) {
	return c.pickupLocations.get(ctx, func(ctx context.Context) (map[string]*domain.PickupLocation, error) {
		list, err := c.store.ListPickupLocations(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string]*domain.PickupLocation, len(list))
		for _, pl := range list {
			m[pl.ID] = pl
		}
		return m, nil
	})
}

// PickupLocation returns a pickup location by ID.
func (c *Cache) PickupLocation(ctx context.Context, id string) (*domain.PickupLocation, error) {
	all, err := c.PickupLocations(ctx)
	if err != nil {
		return nil, err
	}
	pl, ok := all[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPickupLocationNotFound, id)
	}
	return pl, nil
}

// OpeningTimes returns the opening times of a location ordered by weekday.
func (c *Cache) OpeningTimes(ctx context.Context, locationID string) ([]*domain.PickupLocationOpeningTime, error) {
	byLocation, err := c.openingTimes.get(ctx, func(ctx context.Context) (map[string][]*domain.PickupLocationOpeningTime, error) {
		list, err := c.store.ListPickupLocationOpeningTimes(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string][]*domain.PickupLocationOpeningTime)
		for _, ot := range list {
			m[ot.PickupLocationID] = append(m[ot.PickupLocationID], ot)
		}
		for _, times := range m {
			domain.SortOpeningTimes(times)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return byLocation[locationID], nil
}

// Capabilities returns the product types each location serves.
func (c *Cache) Capabilities(ctx context.Context) ([]*domain.PickupLocationCapability, error) {
	return c.capabilities.get(ctx, c.store.ListPickupLocationCapabilities)
}

// BasketCapacities returns the per-basket-size capacities of all locations.
func (c *Cache) BasketCapacities(ctx context.Context) ([]*domain.PickupLocationBasketCapacity, error) {
	return c.basketCapacities.get(ctx, c.store.ListPickupLocationBasketCapacities)
}

// BasketSizeEquivalences returns how many baskets of each size one unit of a product uses.
func (c *Cache) BasketSizeEquivalences(ctx context.Context) ([]*domain.ProductBasketSizeEquivalence, error) {
	return c.basketSizeEquivalences.get(ctx, c.store.ListProductBasketSizeEquivalences)
}

// MemberPickupLocations returns the pickup location timeline of all members.
func (c *Cache) MemberPickupLocations(ctx context.Context) ([]*domain.MemberPickupLocation, error) {
	return c.memberPickupLocations.get(ctx, c.store.ListMemberPickupLocations)
}

// MemberPickupLocationsAt maps members to their location at date. The timeline is
// resolved once per date and request.
func (c *Cache) MemberPickupLocationsAt(ctx context.Context, date time.Time) (map[string]string, error) {
	return Memoize(c, "member_pickup_locations_at", date, func() (map[string]string, error) {
		timeline, err := c.MemberPickupLocations(ctx)
		if err != nil {
			return nil, err
		}
		return domain.PickupLocationsAt(timeline, date), nil
	})
}

// MemberPickupLocationAt returns the member's location at date.
func (c *Cache) MemberPickupLocationAt(ctx context.Context, memberID string, date time.Time) (string, bool, error) {
	byMember, err := c.MemberPickupLocationsAt(ctx, date)
	if err != nil {
		return "", false, err
	}
	id, ok := byMember[memberID]
	return id, ok, nil
}

// WaitingListEntries returns all open waiting-list entries.
func (c *Cache) WaitingListEntries(ctx context.Context) ([]*domain.WaitingListEntry, error) {
	return c.waitingList.get(ctx, c.store.ListWaitingListEntries)
}
