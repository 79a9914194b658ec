package reqcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/memstore"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func seededStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	s.AddProductType(&domain.ProductType{ID: "harvest", Name: "Ernteanteile", DeliveryCycle: domain.Weekly})
	s.AddProduct(&domain.Product{ID: "m", Name: "M", TypeID: "harvest"})
	s.AddProduct(&domain.Product{ID: "old", Name: "Alt", TypeID: "harvest", Deleted: true})
	s.AddProductPrice(&domain.ProductPrice{ProductID: "m", Price: domain.NewMoney(8000), Size: decimal.NewFromInt(1), ValidFrom: dates.New(2024, time.January, 1)})
	s.AddProductPrice(&domain.ProductPrice{ProductID: "m", Price: domain.NewMoney(9000), Size: decimal.NewFromInt(1), ValidFrom: dates.New(2025, time.January, 1)})
	s.AddProductCapacity(&domain.ProductCapacity{ProductTypeID: "harvest", PeriodID: "2025", Capacity: decimal.NewFromInt(100)})
	require.NoError(t, s.AddGrowingPeriod(&domain.GrowingPeriod{ID: "2025", StartDate: dates.New(2025, time.January, 1), EndDate: dates.New(2025, time.December, 31)}))
	require.NoError(t, s.AddGrowingPeriod(&domain.GrowingPeriod{ID: "2024", StartDate: dates.New(2024, time.January, 1), EndDate: dates.New(2024, time.December, 31)}))
	s.AddNoticePeriod(&domain.NoticePeriod{ProductTypeID: "harvest", PeriodID: "2025", DurationMonths: 3})
	s.AddPickupLocation(&domain.PickupLocation{ID: "north", Name: "Nord"})
	s.AddOpeningTime(&domain.PickupLocationOpeningTime{PickupLocationID: "north", DayOfWeek: 4, OpenTime: "16:00"})
	s.AddOpeningTime(&domain.PickupLocationOpeningTime{PickupLocationID: "north", DayOfWeek: 1, OpenTime: "16:00"})
	return s
}

func TestCache_LoadsEachTableOnce(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	c := New(store)

	for i := 0; i < 3; i++ {
		_, err := c.Subscriptions(ctx)
		require.NoError(t, err)
		_, err = c.Product(ctx, "m")
		require.NoError(t, err)
		_, err = c.ProductTypeOf(ctx, "m")
		require.NoError(t, err)
		_, err = c.PriceAt(ctx, "m", dates.New(2025, time.June, 1))
		require.NoError(t, err)
		_, err = c.GrowingPeriods(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, store.Loads(memstore.TableSubscriptions))
	assert.Equal(t, 1, store.Loads(memstore.TableProducts))
	assert.Equal(t, 1, store.Loads(memstore.TableProductTypes))
	assert.Equal(t, 1, store.Loads(memstore.TableProductPrices))
	assert.Equal(t, 1, store.Loads(memstore.TableGrowingPeriods))

	// A new request sees the store again.
	_, err := New(store).Subscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Loads(memstore.TableSubscriptions))
}

func TestCache_Lookups(t *testing.T) {
	ctx := context.Background()
	c := New(seededStore(t))

	t.Run("missing product", func(t *testing.T) {
		_, err := c.Product(ctx, "xl")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("missing pickup location", func(t *testing.T) {
		_, err := c.PickupLocation(ctx, "south")
		assert.ErrorIs(t, err, domain.ErrPickupLocationNotFound)
	})

	t.Run("price at date", func(t *testing.T) {
		p, err := c.PriceAt(ctx, "m", dates.New(2024, time.July, 1))
		require.NoError(t, err)
		assert.Equal(t, "80.00", p.Price.String())
	})

	t.Run("product without price", func(t *testing.T) {
		_, err := c.PriceAt(ctx, "old", dates.New(2024, time.July, 1))
		assert.ErrorIs(t, err, domain.ErrNoProductPrice)
	})

	t.Run("deleted products are not offered", func(t *testing.T) {
		products, err := c.ProductsOfType(ctx, "harvest")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "m", products[0].ID)
	})

	t.Run("growing periods are sorted", func(t *testing.T) {
		periods, err := c.GrowingPeriods(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2024", periods[0].ID)
		gp, err := c.GrowingPeriodAt(ctx, dates.New(2025, time.March, 1))
		require.NoError(t, err)
		assert.Equal(t, "2025", gp.ID)
	})

	t.Run("type capacity and default open", func(t *testing.T) {
		capacity, err := c.ProductTypeCapacity(ctx, "harvest", "2025")
		require.NoError(t, err)
		assert.True(t, capacity.Value().Equal(decimal.NewFromInt(100)))
		capacity, err = c.ProductTypeCapacity(ctx, "harvest", "2024")
		require.NoError(t, err)
		assert.True(t, capacity.IsUnlimited())
	})

	t.Run("notice period", func(t *testing.T) {
		months, ok, err := c.NoticePeriodMonths(ctx, "harvest", "2025")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, months)
		_, ok, err = c.NoticePeriodMonths(ctx, "harvest", "2024")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("opening times are ordered", func(t *testing.T) {
		times, err := c.OpeningTimes(ctx, "north")
		require.NoError(t, err)
		require.Len(t, times, 2)
		assert.Equal(t, 1, times[0].DayOfWeek)
	})
}

func TestMemoize(t *testing.T) {
	c := New(memstore.New())
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Memoize(c, "answer", "k", compute)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)

	_, err := Memoize(c, "answer", "other", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	boom := errors.New("boom")
	failing := func() (int, error) { calls++; return 0, boom }
	_, err = Memoize(c, "failing", 1, failing)
	assert.ErrorIs(t, err, boom)
	_, err = Memoize(c, "failing", 1, failing)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, calls)
}

func TestCache_MemberPickupLocationsResolvedOncePerDate(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	store.AddMemberPickupLocation(&domain.MemberPickupLocation{MemberID: "m1", PickupLocationID: "north", ValidFrom: dates.New(2025, time.January, 1)})
	store.AddMemberPickupLocation(&domain.MemberPickupLocation{MemberID: "m1", PickupLocationID: "south", ValidFrom: dates.New(2025, time.April, 7)})
	c := New(store)
	date := dates.New(2025, time.March, 10)

	at, ok, err := c.MemberPickupLocationAt(ctx, "m1", date)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "north", at)

	_, err = Memoize(c, "member_pickup_locations_at", date, func() (map[string]string, error) {
		t.Fatal("timeline was resolved again for the same date")
		return nil, nil
	})
	require.NoError(t, err)

	_, ok, err = c.MemberPickupLocationAt(ctx, "m2", date)
	require.NoError(t, err)
	assert.False(t, ok)

	at, _, err = c.MemberPickupLocationAt(ctx, "m1", dates.New(2025, time.April, 7))
	require.NoError(t, err)
	assert.Equal(t, "south", at)
	assert.Equal(t, 1, store.Loads(memstore.TableMemberPickupLocations))
}
