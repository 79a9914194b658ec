package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// ProductType is a category of products, e.g. harvest shares.
type ProductType struct {
	ID                        string
	Name                      string
	DeliveryCycle             DeliveryCycle
	SingleSubscriptionOnly    bool
	MustBeSubscribedTo        bool
	SubscriptionsHaveEndDates bool
	ContractLink              string
}

// NeedsDelivery reports whether products of this type go through a pickup location.
func (pt *ProductType) NeedsDelivery() bool {
	return pt.DeliveryCycle != NoDelivery
}

// Product is a sellable unit of a product type.
type Product struct {
	ID     string
	Name   string
	TypeID string
	// Capacity is a flat per-product ceiling in units; nil means unlimited.
	Capacity *int
	Deleted  bool
}

// ProductPrice is a price and its capacity size, valid from a date on.
type ProductPrice struct {
	ID        string
	ProductID string
	Price     Money
	Size      decimal.Decimal
	ValidFrom time.Time
}

// PriceAt resolves the price valid at date: the latest price with valid_from <= date,
// falling back to the earliest price when none precedes date. Returns nil for an empty list.
func PriceAt(prices []*ProductPrice, date time.Time) *ProductPrice {
	if len(prices) == 0 {
		return nil
	}
	sorted := make([]*ProductPrice, len(prices))
	copy(sorted, prices)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ValidFrom.Before(sorted[j].ValidFrom) })

	current := sorted[0]
	for _, p := range sorted {
		if p.ValidFrom.After(date) {
			break
		}
		current = p
	}
	return current
}

// ProductCapacity is the capacity of a product type within a growing period,
// measured in price sizes.
type ProductCapacity struct {
	ID            string
	ProductTypeID string
	PeriodID      string
	Capacity      decimal.Decimal
}

// GrowingPeriod is a season. Periods never overlap.
type GrowingPeriod struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
}

// Contains reports whether date falls within the period (inclusive).
func (gp *GrowingPeriod) Contains(date time.Time) bool {
	return !date.Before(gp.StartDate) && !date.After(gp.EndDate)
}

// SortGrowingPeriods orders periods by start date.
func SortGrowingPeriods(periods []*GrowingPeriod) {
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })
}

// GrowingPeriodAt returns the period containing date, or nil.
func GrowingPeriodAt(periods []*GrowingPeriod, date time.Time) *GrowingPeriod {
	for _, gp := range periods {
		if gp.Contains(date) {
			return gp
		}
	}
	return nil
}

// NextGrowingPeriodAfter returns the earliest period starting after date, or nil.
func NextGrowingPeriodAfter(periods []*GrowingPeriod, date time.Time) *GrowingPeriod {
	var next *GrowingPeriod
	for _, gp := range periods {
		if gp.StartDate.After(date) && (next == nil || gp.StartDate.Before(next.StartDate)) {
			next = gp
		}
	}
	return next
}

// PreviousGrowingPeriodBefore returns the latest period ending before date, or nil.
func PreviousGrowingPeriodBefore(periods []*GrowingPeriod, date time.Time) *GrowingPeriod {
	var prev *GrowingPeriod
	for _, gp := range periods {
		if gp.EndDate.Before(date) && (prev == nil || gp.EndDate.After(prev.EndDate)) {
			prev = gp
		}
	}
	return prev
}

// ValidateNoOverlap reports whether candidate overlaps any existing period.
func ValidateNoOverlap(existing []*GrowingPeriod, candidate *GrowingPeriod) bool {
	for _, gp := range existing {
		if gp.ID == candidate.ID {
			continue
		}
		if !candidate.EndDate.Before(gp.StartDate) && !candidate.StartDate.After(gp.EndDate) {
			return false
		}
	}
	return true
}

// NoticePeriod is the notice duration in months for a product type within a period.
type NoticePeriod struct {
	ProductTypeID  string
	PeriodID       string
	DurationMonths int
}

// NoticeCutoff is the last day on which a subscription ending at endDate can still be cancelled.
func NoticeCutoff(endDate time.Time, months int) time.Time {
	return dates.AddMonths(endDate, -months)
}
