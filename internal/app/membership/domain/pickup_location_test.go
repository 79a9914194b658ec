package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func TestPickupLocationsAt(t *testing.T) {
	timeline := []*MemberPickupLocation{
		{MemberID: "m1", PickupLocationID: "north", ValidFrom: dates.New(2024, time.January, 1)},
		{MemberID: "m1", PickupLocationID: "south", ValidFrom: dates.New(2025, time.April, 7)},
		{MemberID: "m2", PickupLocationID: "east", ValidFrom: dates.New(2024, time.January, 1)},
	}

	tests := []struct {
		name     string
		memberID string
		date     time.Time
		want     string
		found    bool
	}{
		{"before first entry", "m1", dates.New(2023, time.December, 31), "", false},
		{"first entry", "m1", dates.New(2025, time.April, 6), "north", true},
		{"change day counts", "m1", dates.New(2025, time.April, 7), "south", true},
		{"other member", "m2", dates.New(2025, time.May, 1), "east", true},
		{"unknown member", "m3", dates.New(2025, time.May, 1), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickupLocationsAt(timeline, tt.date)[tt.memberID]
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortOpeningTimes(t *testing.T) {
	times := []*PickupLocationOpeningTime{
		{DayOfWeek: 4, OpenTime: "16:00"},
		{DayOfWeek: 1, OpenTime: "18:00"},
		{DayOfWeek: 1, OpenTime: "09:00"},
	}
	SortOpeningTimes(times)
	assert.Equal(t, 1, times[0].DayOfWeek)
	assert.Equal(t, "09:00", times[0].OpenTime)
	assert.Equal(t, 4, times[2].DayOfWeek)
}

func TestWaitingListEntry_PreferredPickupLocationID(t *testing.T) {
	e := &WaitingListEntry{PickupLocationWishes: []WaitingListPickupLocationWish{
		{PickupLocationID: "b", Priority: 2},
		{PickupLocationID: "a", Priority: 1},
	}}
	assert.Equal(t, "a", e.PreferredPickupLocationID())
	assert.Equal(t, "", (&WaitingListEntry{}).PreferredPickupLocationID())
}
