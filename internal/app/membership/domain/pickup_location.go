package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PickupLocation is a depot where members collect their deliveries.
type PickupLocation struct {
	ID   string
	Name string
}

// PickupLocationOpeningTime is an opening slot on a weekday (Monday=0).
type PickupLocationOpeningTime struct {
	PickupLocationID string
	DayOfWeek        int
	OpenTime         string
	CloseTime        string
}

// SortOpeningTimes orders opening times by weekday, then opening hour.
func SortOpeningTimes(times []*PickupLocationOpeningTime) {
	sort.SliceStable(times, func(i, j int) bool {
		if times[i].DayOfWeek != times[j].DayOfWeek {
			return times[i].DayOfWeek < times[j].DayOfWeek
		}
		return times[i].OpenTime < times[j].OpenTime
	})
}

// PickupLocationCapability says a location serves a product type, with an optional
// ceiling in price sizes (share picking mode).
type PickupLocationCapability struct {
	PickupLocationID string
	ProductTypeID    string
	MaxCapacity      *decimal.Decimal
}

// PickupLocationBasketCapacity is the number of baskets of a size a location can
// hand out (basket picking mode). Nil capacity means unlimited.
type PickupLocationBasketCapacity struct {
	PickupLocationID string
	BasketSizeID     string
	Capacity         *int
}

// ProductBasketSizeEquivalence maps one unit of a product to a number of baskets of a size.
type ProductBasketSizeEquivalence struct {
	ProductID    string
	BasketSizeID string
	Quantity     int
}

// MemberPickupLocation is one entry of a member's append-only pickup-location timeline.
type MemberPickupLocation struct {
	MemberID         string
	PickupLocationID string
	ValidFrom        time.Time
}

// PickupLocationsAt maps every member with an assignment at date to that location: the
// entry with the latest valid_from <= date. Members without one are absent.
func PickupLocationsAt(timeline []*MemberPickupLocation, date time.Time) map[string]string {
	current := make(map[string]*MemberPickupLocation)
	for _, mpl := range timeline {
		if mpl.ValidFrom.After(date) {
			continue
		}
		if c, ok := current[mpl.MemberID]; !ok || mpl.ValidFrom.After(c.ValidFrom) {
			current[mpl.MemberID] = mpl
		}
	}
	out := make(map[string]string, len(current))
	for memberID, mpl := range current {
		out[memberID] = mpl.PickupLocationID
	}
	return out
}
