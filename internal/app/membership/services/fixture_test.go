package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/memstore"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// today is a Monday in ISO week 11 of 2025.
var today = dates.New(2025, time.March, 10)

var (
	start2025 = dates.New(2025, time.January, 1)
	end2025   = dates.New(2025, time.December, 31)
	start2026 = dates.New(2026, time.January, 1)
	end2026   = dates.New(2026, time.December, 31)
)

// fixture is a small cooperative: harvest shares S (size 1) and M (size 2) with a
// capacity of 10 per season, an egg box limited to 5 units that can only be ordered
// once, and the pickup locations north (opens Tuesdays) and south (no opening times).
type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memstore.Store
	clock  *clock.MockClock
	values map[params.Key]string
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	northHarvestLimit *decimal.Decimal
}

// northHarvestLimit caps harvest shares at the north location.
func northHarvestLimit(limit int64) fixtureOption {
	return func(c *fixtureConfig) {
		d := decimal.NewFromInt(limit)
		c.northHarvestLimit = &d
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	var cfg fixtureConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  memstore.New(),
		clock:  clock.NewMockClock(today.Add(10 * time.Hour)),
		values: make(map[params.Key]string),
	}
	s := f.store
	require.NoError(t, s.AddGrowingPeriod(&domain.GrowingPeriod{ID: "2025", StartDate: start2025, EndDate: end2025}))
	require.NoError(t, s.AddGrowingPeriod(&domain.GrowingPeriod{ID: "2026", StartDate: start2026, EndDate: end2026}))

	s.AddProductType(&domain.ProductType{ID: "harvest", Name: "Ernteanteile", DeliveryCycle: domain.Weekly, SubscriptionsHaveEndDates: true})
	s.AddProductType(&domain.ProductType{ID: "eggs", Name: "Eier", DeliveryCycle: domain.Weekly, SingleSubscriptionOnly: true})
	s.AddProduct(&domain.Product{ID: "s", Name: "S", TypeID: "harvest"})
	s.AddProduct(&domain.Product{ID: "m", Name: "M", TypeID: "harvest"})
	s.AddProduct(&domain.Product{ID: "old", Name: "Alt", TypeID: "harvest", Deleted: true})
	s.AddProduct(&domain.Product{ID: "egg-box", Name: "Eierkiste", TypeID: "eggs", Capacity: intPtr(5)})
	f.price("s", "50.00", 1)
	f.price("m", "80.00", 2)
	f.price("old", "10.00", 1)
	f.price("egg-box", "10.00", 1)
	s.AddProductCapacity(&domain.ProductCapacity{ProductTypeID: "harvest", PeriodID: "2025", Capacity: decimal.NewFromInt(10)})
	s.AddProductCapacity(&domain.ProductCapacity{ProductTypeID: "harvest", PeriodID: "2026", Capacity: decimal.NewFromInt(10)})

	s.AddPickupLocation(&domain.PickupLocation{ID: "north", Name: "Nord"})
	s.AddPickupLocation(&domain.PickupLocation{ID: "south", Name: "Süd"})
	s.AddOpeningTime(&domain.PickupLocationOpeningTime{PickupLocationID: "north", DayOfWeek: 4, OpenTime: "16:00", CloseTime: "19:00"})
	s.AddOpeningTime(&domain.PickupLocationOpeningTime{PickupLocationID: "north", DayOfWeek: 1, OpenTime: "16:00", CloseTime: "19:00"})
	s.AddCapability(&domain.PickupLocationCapability{PickupLocationID: "north", ProductTypeID: "harvest", MaxCapacity: cfg.northHarvestLimit})
	s.AddCapability(&domain.PickupLocationCapability{PickupLocationID: "north", ProductTypeID: "eggs"})
	return f
}

func (f *fixture) price(productID, amount string, size int64) {
	f.store.AddProductPrice(&domain.ProductPrice{
		ProductID: productID,
		Price:     domain.MustParseMoney(amount),
		Size:      decimal.NewFromInt(size),
		ValidFrom: dates.New(2024, time.January, 1),
	})
}

func (f *fixture) set(key params.Key, value string) *fixture {
	f.values[key] = value
	return f
}

func (f *fixture) services() *Set {
	return NewSet(params.NewStatic(f.values), f.clock)
}

// cache starts a new request.
func (f *fixture) cache() *reqcache.Cache {
	return reqcache.New(f.store)
}

// subscribe stores a subscription for the 2025 season.
func (f *fixture) subscribe(id, memberID, productID string, quantity int) domain.SubscriptionData {
	end := end2025
	d := domain.SubscriptionData{
		ID:        id,
		MemberID:  memberID,
		ProductID: productID,
		Quantity:  quantity,
		PeriodID:  "2025",
		StartDate: start2025,
		EndDate:   &end,
		CreatedAt: start2025,
		Version:   1,
	}
	f.store.AddSubscription(d)
	return d
}

func (f *fixture) save(d domain.SubscriptionData) {
	f.store.AddSubscription(d)
}

func (f *fixture) livesAt(memberID, locationID string, from time.Time) {
	f.store.AddMemberPickupLocation(&domain.MemberPickupLocation{MemberID: memberID, PickupLocationID: locationID, ValidFrom: from})
}

func order(lines ...domain.OrderLine) *domain.Order {
	return domain.MustNewOrder(lines...)
}

func line(productID string, quantity int) domain.OrderLine {
	return domain.OrderLine{ProductID: productID, Quantity: quantity}
}

func intPtr(v int) *int { return &v }

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func moneyPtr(s string) *domain.Money {
	m := domain.MustParseMoney(s)
	return &m
}
