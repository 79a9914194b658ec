package contracts

import (
	"context"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
)

// CatalogReader reads products, their types, prices and type-level capacities.
type CatalogReader interface {
	ListProductTypes(ctx context.Context) ([]*domain.ProductType, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListProductPrices(ctx context.Context) ([]*domain.ProductPrice, error)
	ListProductCapacities(ctx context.Context) ([]*domain.ProductCapacity, error)
}

// PeriodReader reads growing periods and the notice periods scoped to them.
type PeriodReader interface {
	ListGrowingPeriods(ctx context.Context) ([]*domain.GrowingPeriod, error)
	ListNoticePeriods(ctx context.Context) ([]*domain.NoticePeriod, error)
}

// SubscriptionReader reads stored subscriptions.
type SubscriptionReader interface {
	ListSubscriptions(ctx context.Context) ([]*domain.Subscription, error)
}

// PickupLocationReader reads pickup locations, their capacities and member assignments.
type PickupLocationReader interface {
	ListPickupLocations(ctx context.Context) ([]*domain.PickupLocation, error)
	ListPickupLocationOpeningTimes(ctx context.Context) ([]*domain.PickupLocationOpeningTime, error)
	ListPickupLocationCapabilities(ctx context.Context) ([]*domain.PickupLocationCapability, error)
	ListPickupLocationBasketCapacities(ctx context.Context) ([]*domain.PickupLocationBasketCapacity, error)
	ListProductBasketSizeEquivalences(ctx context.Context) ([]*domain.ProductBasketSizeEquivalence, error)
	ListMemberPickupLocations(ctx context.Context) ([]*domain.MemberPickupLocation, error)
}

// WaitingListReader reads waiting-list entries with their wishes.
type WaitingListReader interface {
	ListWaitingListEntries(ctx context.Context) ([]*domain.WaitingListEntry, error)
}

// Store is the read-only view the capacity and validation core works on.
// Every call returns the full table; the request cache memoizes the result.
type Store interface {
	CatalogReader
	PeriodReader
	SubscriptionReader
	PickupLocationReader
	WaitingListReader
}
