package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/models/m_basket_capacity"
	"github.com/light-bringer/csa-service/internal/models/m_basket_size_equivalence"
	"github.com/light-bringer/csa-service/internal/models/m_capability"
	"github.com/light-bringer/csa-service/internal/models/m_growing_period"
	"github.com/light-bringer/csa-service/internal/models/m_member_pickup_location"
	"github.com/light-bringer/csa-service/internal/models/m_notice_period"
	"github.com/light-bringer/csa-service/internal/models/m_opening_time"
	"github.com/light-bringer/csa-service/internal/models/m_parameter"
	"github.com/light-bringer/csa-service/internal/models/m_pickup_location"
	"github.com/light-bringer/csa-service/internal/models/m_product"
	"github.com/light-bringer/csa-service/internal/models/m_product_capacity"
	"github.com/light-bringer/csa-service/internal/models/m_product_price"
	"github.com/light-bringer/csa-service/internal/models/m_product_type"
	"github.com/light-bringer/csa-service/internal/models/m_subscription"
	"github.com/light-bringer/csa-service/internal/models/m_waiting_list"
	"github.com/light-bringer/csa-service/internal/models/m_waiting_list_location_wish"
	"github.com/light-bringer/csa-service/internal/models/m_waiting_list_product_wish"
	"github.com/light-bringer/csa-service/internal/pkg/query"
)

// Store implements contracts.Store and params.Source for Spanner. Every list reads the
// whole table in a single-use read-only transaction.
type Store struct {
	client *spanner.Client
}

// NewStore creates a new Store.
func NewStore(client *spanner.Client) *Store {
	return &Store{client: client}
}

// readAll runs stmt and converts every row through its table model D.
func readAll[D any, T any](ctx context.Context, client *spanner.Client, stmt spanner.Statement, convert func(*D) (T, error)) ([]T, error) {
	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []T
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w", err)
		}

		var data D
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		v, err := convert(&data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) ListProductTypes(ctx context.Context) ([]*domain.ProductType, error) {
	stmt := query.From(m_product_type.TableName).
		Select(m_product_type.Columns...).
		OrderBy(m_product_type.Name, query.Asc).
		Build()
	return readAll(ctx, s.client, stmt, func(d *m_product_type.Data) (*domain.ProductType, error) {
		cycle, err := domain.ParseDeliveryCycle(d.DeliveryCycle)
		if err != nil {
			return nil, fmt.Errorf("product type %s: %w", d.ProductTypeID, err)
		}
		return &domain.ProductType{
			ID:                        d.ProductTypeID,
			Name:                      d.Name,
			DeliveryCycle:             cycle,
			SingleSubscriptionOnly:    d.SingleSubscriptionOnly,
			MustBeSubscribedTo:        d.MustBeSubscribedTo,
			SubscriptionsHaveEndDates: d.SubscriptionsHaveEndDates,
			ContractLink:              d.ContractLink.StringVal,
		}, nil
	})
}

func (s *Store) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.Columns...).
		OrderBy(m_product.Name, query.Asc).
		Build()
	return readAll(ctx, s.client, stmt, func(d *m_product.Data) (*domain.Product, error) {
		return &domain.Product{
			ID:       d.ProductID,
			Name:     d.Name,
			TypeID:   d.ProductTypeID,
			Capacity: fromNullInt(d.Capacity),
			Deleted:  d.Deleted,
		}, nil
	})
}

func (s *Store) ListProductPrices(ctx context.Context) ([]*domain.ProductPrice, error) {
	stmt := query.From(m_product_price.TableName).
		Select(m_product_price.Columns...).
		OrderBy(m_product_price.ProductID, query.Asc).
		OrderBy(m_product_price.ValidFrom, query.Asc).
		Build()
	return readAll(ctx, s.client, stmt, func(d *m_product_price.Data) (*domain.ProductPrice, error) {
		price, err := fromRat(&d.Price)
		if err != nil {
			return nil, err
		}
		size, err := fromRat(&d.Size)
		if err != nil {
			return nil, err
		}
		return &domain.ProductPrice{
			ID:        d.ProductPriceID,
			ProductID: d.ProductID,
			Price:     domain.MoneyFromDecimal(price),
			Size:      size,
			ValidFrom: fromCivil(d.ValidFrom),
		}, nil
	})
}

func (s *Store) ListProductCapacities(ctx context.Context) ([]*domain.ProductCapacity, error) {
	stmt := query.From(m_product_capacity.TableName).Select(m_product_capacity.Columns...).Build()
	return readAll(ctx, s.client, stmt, func(d *m_product_capacity.Data) (*domain.ProductCapacity, error) {
		capacity, err := fromRat(&d.Capacity)
		if err != nil {
			return nil, err
		}
		return &domain.ProductCapacity{
			ID:            d.ProductCapacityID,
			ProductTypeID: d.ProductTypeID,
			PeriodID:      d.PeriodID,
			Capacity:      capacity,
		}, nil
	})
}

func (s *Store) ListGrowingPeriods(ctx context.Context) ([]*domain.GrowingPeriod, error) {
	stmt := query.From(m_growing_period.TableName).
		Select(m_growing_period.Columns...).
		OrderBy(m_growing_period.StartDate, query.Asc).
		Build()
	return readAll(ctx, s.client, stmt, func(d *m_growing_period.Data) (*domain.GrowingPeriod, error) {
		return &domain.GrowingPeriod{
			ID:        d.PeriodID,
			StartDate: fromCivil(d.StartDate),
			EndDate:   fromCivil(d.EndDate),
		}, nil
	})
}

func (s *Store) ListNoticePeriods(ctx context.Context) ([]*domain.NoticePeriod, error) {
	stmt := query.From(m_notice_period.TableName).Select(m_notice_period.Columns...).Build()
	return readAll(ctx, s.client, stmt, func(d *m_notice_period.Data) (*domain.NoticePeriod, error) {
		return &domain.NoticePeriod{
			ProductTypeID:  d.ProductTypeID,
			PeriodID:       d.PeriodID,
			DurationMonths: int(d.DurationMonths),
		}, nil
	})
}

func (s *Store) ListSubscriptions(ctx context.Context) ([]*domain.Subscription, error) {
	stmt := query.From(m_subscription.TableName).
		Select(m_subscription.Columns...).
		OrderBy(m_subscription.StartDate, query.Asc).
		OrderBy(m_subscription.SubscriptionID, query.Asc).
		Build()
	return readAll(ctx, s.client, stmt, dataToSubscription)
}

func (s *Store) ListPickupLocations(ctx context.Context) ([]*domain.PickupLocation, error) {
	stmt := query.From(m_pickup_location.TableName).Select(m_pickup_location.Columns...).Build()
	return readAll(ctx, s.client, stmt, func(d *m_pickup_location.Data) (*domain.PickupLocation, error) {
		return &domain.PickupLocation{ID: d.PickupLocationID, Name: d.Name}, nil
	})
}

func (s *Store) ListPickupLocationOpeningTimes(ctx context.Context) ([]*domain.PickupLocationOpeningTime, error) {
	stmt := query.From(m_opening_time.TableName).Select(m_opening_time.Columns...).Build()
	return readAll(ctx, s.client, stmt, func(d *m_opening_time.Data) (*domain.PickupLocationOpeningTime, error) {
		return &domain.PickupLocationOpeningTime{
			PickupLocationID: d.PickupLocationID,
			DayOfWeek:        int(d.DayOfWeek),
			OpenTime:         d.OpenTime,
			CloseTime:        d.CloseTime,
		}, nil
	})
}

func (s *Store) ListPickupLocationCapabilities(ctx context.Context) ([]*domain.PickupLocationCapability, error) {
	stmt := query.From(m_capability.TableName).Select(m_capability.Columns...).Build()
	return readAll(ctx, s.client, stmt, func(d *m_capability.Data) (*domain.PickupLocationCapability, error) {
		maxCapacity, err := fromNullNumeric(d.MaxCapacity)
		if err != nil {
			return nil, err
		}
		return &domain.PickupLocationCapability{
			PickupLocationID: d.PickupLocationID,
			ProductTypeID:    d.ProductTypeID,
			MaxCapacity:      maxCapacity,
		}, nil
	})
}

func (s *Store) ListPickupLocationBasketCapacities(ctx context.Context) ([]*domain.PickupLocationBasketCapacity, error) {
	stmt := query.From(m_basket_capacity.TableName).Select(m_basket_capacity.Columns...).Build()
	return readAll(ctx, s.client, stmt, func(d *m_basket_capacity.Data) (*domain.PickupLocationBasketCapacity, error) {
		return &domain.PickupLocationBasketCapacity{
			PickupLocationID: d.PickupLocationID,
			BasketSizeID:     d.BasketSizeID,
			Capacity:         fromNullInt(d.Capacity),
		}, nil
	})
}

func (s *Store) ListProductBasketSizeEquivalences(ctx context.Context) ([]*domain.ProductBasketSizeEquivalence, error) {
	stmt := query.From(m_basket_size_equivalence.TableName).Select(m_basket_size_equivalence.Columns...).Build()
	return readAll(ctx, s.client, stmt, func(d *m_basket_size_equivalence.Data) (*domain.ProductBasketSizeEquivalence, error) {
		return &domain.ProductBasketSizeEquivalence{
			ProductID:    d.ProductID,
			BasketSizeID: d.BasketSizeID,
			Quantity:     int(d.Quantity),
		}, nil
	})
}

func (s *Store) ListMemberPickupLocations(ctx context.Context) ([]*domain.MemberPickupLocation, error) {
	stmt := query.From(m_member_pickup_location.TableName).
		Select(m_member_pickup_location.Columns...).
		OrderBy(m_member_pickup_location.ValidFrom, query.Asc).
		Build()
	return readAll(ctx, s.client, stmt, func(d *m_member_pickup_location.Data) (*domain.MemberPickupLocation, error) {
		return &domain.MemberPickupLocation{
			MemberID:         d.MemberID,
			PickupLocationID: d.PickupLocationID,
			ValidFrom:        fromCivil(d.ValidFrom),
		}, nil
	})
}

// ListWaitingListEntries reads the entries and attaches their product and pickup
// location wishes.
func (s *Store) ListWaitingListEntries(ctx context.Context) ([]*domain.WaitingListEntry, error) {
	stmt := query.From(m_waiting_list.TableName).
		Select(m_waiting_list.Columns...).
		OrderBy(m_waiting_list.CreatedAt, query.Asc).
		Build()
	entries, err := readAll(ctx, s.client, stmt, func(d *m_waiting_list.Data) (*domain.WaitingListEntry, error) {
		return &domain.WaitingListEntry{
			ID:        d.EntryID,
			MemberID:  d.MemberID.StringVal,
			CreatedAt: d.CreatedAt,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.WaitingListEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	stmt = query.From(m_waiting_list_product_wish.TableName).Select(m_waiting_list_product_wish.Columns...).Build()
	if _, err := readAll(ctx, s.client, stmt, func(d *m_waiting_list_product_wish.Data) (struct{}, error) {
		if e, ok := byID[d.EntryID]; ok {
			e.ProductWishes = append(e.ProductWishes, domain.WaitingListProductWish{ProductID: d.ProductID, Quantity: int(d.Quantity)})
		}
		return struct{}{}, nil
	}); err != nil {
		return nil, err
	}

	stmt = query.From(m_waiting_list_location_wish.TableName).Select(m_waiting_list_location_wish.Columns...).Build()
	if _, err := readAll(ctx, s.client, stmt, func(d *m_waiting_list_location_wish.Data) (struct{}, error) {
		if e, ok := byID[d.EntryID]; ok {
			e.PickupLocationWishes = append(e.PickupLocationWishes, domain.WaitingListPickupLocationWish{PickupLocationID: d.PickupLocationID, Priority: int(d.Priority)})
		}
		return struct{}{}, nil
	}); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadParameters implements params.Source.
func (s *Store) LoadParameters(ctx context.Context) (map[string]string, error) {
	stmt := query.From(m_parameter.TableName).Select(m_parameter.ParamKey, m_parameter.ParamValue).Build()
	out := make(map[string]string)
	_, err := readAll(ctx, s.client, stmt, func(d *m_parameter.Data) (struct{}, error) {
		out[d.ParamKey] = d.ParamValue
		return struct{}{}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	return out, nil
}
