package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func TestDeliveryCalculator_IsCycleDeliveredInWeek(t *testing.T) {
	f := newFixture(t)
	d := f.services().Delivery

	tests := []struct {
		name  string
		cycle domain.DeliveryCycle
		date  time.Time
		want  bool
	}{
		{"weekly", domain.Weekly, dates.New(2025, time.January, 13), true},
		{"no delivery", domain.NoDelivery, dates.New(2025, time.January, 6), false},
		{"even weeks in week 2", domain.EvenWeeks, dates.New(2025, time.January, 6), true},
		{"even weeks in week 3", domain.EvenWeeks, dates.New(2025, time.January, 13), false},
		{"odd weeks in week 3", domain.OddWeeks, dates.New(2025, time.January, 13), true},
		{"odd weeks midweek of week 2", domain.OddWeeks, dates.New(2025, time.January, 9), false},
		{"four weeks at rhythm start", domain.EveryFourWeeks, dates.New(2025, time.January, 6), true},
		{"four weeks later on a friday", domain.EveryFourWeeks, dates.New(2025, time.February, 7), true},
		{"four weeks one week after", domain.EveryFourWeeks, dates.New(2025, time.January, 13), false},
		{"four weeks before rhythm start", domain.EveryFourWeeks, dates.New(2024, time.December, 9), true},
		{"two weeks before rhythm start", domain.EveryFourWeeks, dates.New(2024, time.December, 23), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.IsCycleDeliveredInWeek(f.ctx, tt.cycle, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeliveryCalculator_UnknownCycle(t *testing.T) {
	f := newFixture(t)
	_, err := f.services().Delivery.IsCycleDeliveredInWeek(f.ctx, domain.DeliveryCycle(99), today)
	assert.ErrorIs(t, err, domain.ErrUnknownDeliveryCycle)
}

func TestDeliveryCalculator_FourWeekRhythmIsPeriodic(t *testing.T) {
	f := newFixture(t)
	d := f.services().Delivery

	week := dates.New(2024, time.June, 3)
	for i := 0; i < 60; i++ {
		date := dates.AddWeeks(week, i)
		now, err := d.IsWeekDeliveredInFourWeekRhythm(f.ctx, date)
		require.NoError(t, err)
		later, err := d.IsWeekDeliveredInFourWeekRhythm(f.ctx, dates.AddWeeks(date, 4))
		require.NoError(t, err)
		assert.Equal(t, now, later, "week of %s", dates.Format(date))
	}
}

func TestDeliveryCalculator_CyclesDeliveredInWeek(t *testing.T) {
	f := newFixture(t)
	d := f.services().Delivery

	got, err := d.CyclesDeliveredInWeek(f.ctx, dates.New(2025, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, []domain.DeliveryCycle{domain.Weekly, domain.EvenWeeks, domain.EveryFourWeeks}, got)

	got, err = d.CyclesDeliveredInWeek(f.ctx, dates.New(2025, time.January, 13))
	require.NoError(t, err)
	assert.Equal(t, []domain.DeliveryCycle{domain.Weekly, domain.OddWeeks}, got)
}

func TestDeliveryCalculator_NextDeliveryDateAnyProduct(t *testing.T) {
	f := newFixture(t)
	d := f.services().Delivery

	tests := []struct {
		name       string
		reference  time.Time
		locationID string
		want       time.Time
	}{
		{"first opening day of the week", dates.New(2025, time.March, 10), "north", dates.New(2025, time.March, 11)},
		{"on the delivery day", dates.New(2025, time.March, 11), "north", dates.New(2025, time.March, 11)},
		{"delivery day passed", dates.New(2025, time.March, 12), "north", dates.New(2025, time.March, 18)},
		{"sunday", dates.New(2025, time.March, 16), "north", dates.New(2025, time.March, 18)},
		{"location without opening times", dates.New(2025, time.March, 10), "south", dates.New(2025, time.March, 12)},
		{"no location", dates.New(2025, time.March, 13), "", dates.New(2025, time.March, 19)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.NextDeliveryDateAnyProduct(f.ctx, f.cache(), tt.reference, tt.locationID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeliveryCalculator_NextDeliveryDateAnyProduct_UnknownLocation(t *testing.T) {
	f := newFixture(t)
	_, err := f.services().Delivery.NextDeliveryDateAnyProduct(f.ctx, f.cache(), today, "nowhere")
	assert.ErrorIs(t, err, domain.ErrPickupLocationNotFound)
}

func TestDeliveryCalculator_NextDeliveryDateForCycle(t *testing.T) {
	f := newFixture(t)
	d := f.services().Delivery
	rc := f.cache()

	got, err := d.NextDeliveryDateForCycle(f.ctx, rc, today, "north", domain.EvenWeeks)
	require.NoError(t, err)
	assert.Equal(t, dates.New(2025, time.March, 18), got)

	got, err = d.NextDeliveryDateForCycle(f.ctx, rc, today, "north", domain.OddWeeks)
	require.NoError(t, err)
	assert.Equal(t, dates.New(2025, time.March, 11), got)

	got, err = d.NextDeliveryDateForCycle(f.ctx, rc, today, "north", domain.EveryFourWeeks)
	require.NoError(t, err)
	assert.Equal(t, dates.New(2025, time.April, 1), got)

	_, err = d.NextDeliveryDateForCycle(f.ctx, rc, today, "north", domain.NoDelivery)
	assert.ErrorIs(t, err, domain.ErrCycleNeverDelivers)
}

func TestDeliveryCalculator_DateLimitForDeliveryChangesInWeek(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		want  time.Time
	}{
		{"sunday before a tuesday delivery", "6", dates.New(2025, time.March, 9)},
		{"monday of the delivery week", "0", dates.New(2025, time.March, 10)},
		{"on the delivery day", "1", dates.New(2025, time.March, 11)},
		{"wednesday of the week before", "2", dates.New(2025, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t).set(params.DeliveryChangeWeekdayLimit, tt.limit)
			got, err := f.services().Delivery.DateLimitForDeliveryChangesInWeek(f.ctx, f.cache(), today, "north")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
