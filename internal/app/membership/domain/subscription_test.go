package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func testSubscriptionData() SubscriptionData {
	return SubscriptionData{
		ID:        "sub-1",
		MemberID:  "m1",
		ProductID: "harvest-m",
		Quantity:  1,
		PeriodID:  "2025",
		StartDate: dates.New(2025, time.January, 6),
		EndDate:   dates.Ptr(dates.New(2025, time.December, 31)),
	}
}

func TestNewSubscription(t *testing.T) {
	now := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)

	t.Run("valid subscription", func(t *testing.T) {
		s, err := NewSubscription(testSubscriptionData(), now)
		require.NoError(t, err)
		assert.Equal(t, "sub-1", s.ID())
		assert.Equal(t, now, s.CreatedAt())
		require.Len(t, s.DomainEvents(), 1)
		assert.Equal(t, "subscription.created", s.DomainEvents()[0].EventType())
	})

	t.Run("zero quantity", func(t *testing.T) {
		d := testSubscriptionData()
		d.Quantity = 0
		_, err := NewSubscription(d, now)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("end before start", func(t *testing.T) {
		d := testSubscriptionData()
		d.EndDate = dates.Ptr(dates.New(2024, time.December, 31))
		_, err := NewSubscription(d, now)
		assert.ErrorIs(t, err, ErrInvalidSubscriptionEnd)
	})

	t.Run("both solidarity forms", func(t *testing.T) {
		d := testSubscriptionData()
		pct := decimal.NewFromInt(10)
		abs := NewMoney(500)
		d.SolidarityPricePercentage = &pct
		d.SolidarityPriceAbsolute = &abs
		_, err := NewSubscription(d, now)
		assert.ErrorIs(t, err, ErrBothSolidarityPrices)
	})
}

func TestSubscription_IsActiveAt(t *testing.T) {
	s := ReconstructSubscription(testSubscriptionData())

	assert.False(t, s.IsActiveAt(dates.New(2025, time.January, 5)))
	assert.True(t, s.IsActiveAt(dates.New(2025, time.January, 6)))
	assert.True(t, s.IsActiveAt(dates.New(2025, time.December, 31)))
	assert.False(t, s.IsActiveAt(dates.New(2026, time.January, 1)))
	assert.True(t, s.IsActiveOrFutureAt(dates.New(2024, time.June, 1)))

	open := testSubscriptionData()
	open.EndDate = nil
	assert.True(t, ReconstructSubscription(open).IsActiveAt(dates.New(2040, time.January, 1)))
}

func TestSubscription_SolidarityContribution(t *testing.T) {
	price := MustParseMoney("80.00")

	t.Run("no adjustment", func(t *testing.T) {
		s := ReconstructSubscription(testSubscriptionData())
		assert.True(t, s.SolidarityContribution(price).IsZero())
	})

	t.Run("percentage scales with quantity", func(t *testing.T) {
		d := testSubscriptionData()
		d.Quantity = 2
		pct := decimal.NewFromInt(-25)
		d.SolidarityPricePercentage = &pct
		got := ReconstructSubscription(d).SolidarityContribution(price)
		assert.True(t, got.Equals(MustParseMoney("-40")), got.String())
	})

	t.Run("absolute is taken as is", func(t *testing.T) {
		d := testSubscriptionData()
		abs := MustParseMoney("12.50")
		d.SolidarityPriceAbsolute = &abs
		assert.True(t, ReconstructSubscription(d).SolidarityContribution(price).Equals(abs))
	})
}

func TestSubscription_Cancel(t *testing.T) {
	now := time.Date(2025, time.February, 3, 12, 0, 0, 0, time.UTC)

	t.Run("sets cancellation and trims end", func(t *testing.T) {
		s := ReconstructSubscription(testSubscriptionData())
		end := dates.New(2025, time.February, 5)
		require.NoError(t, s.Cancel(now, &end))
		assert.True(t, s.IsCancelled())
		assert.Equal(t, end, *s.EndDate())
		assert.True(t, s.Changes().Dirty(FieldCancellationTS))
		assert.True(t, s.Changes().Dirty(FieldEndDate))
		require.Len(t, s.DomainEvents(), 1)
		assert.Equal(t, "subscription.cancelled", s.DomainEvents()[0].EventType())
	})

	t.Run("later end date does not extend", func(t *testing.T) {
		s := ReconstructSubscription(testSubscriptionData())
		later := dates.New(2026, time.March, 1)
		require.NoError(t, s.Cancel(now, &later))
		assert.Equal(t, dates.New(2025, time.December, 31), *s.EndDate())
		assert.False(t, s.Changes().Dirty(FieldEndDate))
	})

	t.Run("twice", func(t *testing.T) {
		s := ReconstructSubscription(testSubscriptionData())
		require.NoError(t, s.Cancel(now, nil))
		assert.ErrorIs(t, s.Cancel(now, nil), ErrAlreadyCancelled)
	})

	t.Run("end before start", func(t *testing.T) {
		s := ReconstructSubscription(testSubscriptionData())
		early := dates.New(2024, time.December, 1)
		assert.ErrorIs(t, s.Cancel(now, &early), ErrInvalidSubscriptionEnd)
		assert.False(t, s.IsCancelled())
	})
}

func TestSubscription_Renew(t *testing.T) {
	now := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	next := &GrowingPeriod{ID: "2026", StartDate: dates.New(2026, time.January, 1), EndDate: dates.New(2026, time.December, 31)}
	pct := decimal.NewFromInt(10)
	d := testSubscriptionData()
	d.SolidarityPricePercentage = &pct
	old := ReconstructSubscription(d)

	months := 3
	renewed, err := old.Renew("sub-2", next, TrialData{Disabled: true}, &months, now)
	require.NoError(t, err)
	assert.Equal(t, "2026", renewed.PeriodID())
	assert.Equal(t, next.StartDate, renewed.StartDate())
	assert.Equal(t, next.EndDate, *renewed.EndDate())
	assert.Equal(t, old.Quantity(), renewed.Quantity())
	assert.True(t, renewed.TrialDisabled())
	assert.Equal(t, 3, *renewed.NoticePeriodDuration())
	assert.True(t, renewed.SolidarityPercentage().Equal(pct))
	require.Len(t, renewed.DomainEvents(), 1)
	ev, ok := renewed.DomainEvents()[0].(*SubscriptionRenewedEvent)
	require.True(t, ok)
	assert.Equal(t, "sub-1", ev.PreviousSubscriptionID)
	assert.Empty(t, old.DomainEvents())
}
