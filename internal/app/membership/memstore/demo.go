package memstore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// Demo products and locations.
const (
	DemoHarvestTypeID = "harvest-shares"
	DemoEggsTypeID    = "eggs"
	DemoMembershipID  = "cooperative-shares"
	DemoLocationNorth = "pl-north"
	DemoLocationSouth = "pl-south"
)

// NewDemo builds a store with a small but complete dataset: the growing periods of
// today's year and the next, harvest shares in three sizes, weekly eggs, cooperative
// shares without delivery and two pickup locations.
func NewDemo(today time.Time) (*Store, error) {
	s := New()
	year := today.Year()

	for _, y := range []int{year, year + 1} {
		gp := &domain.GrowingPeriod{
			ID:        fmt.Sprintf("season-%d", y),
			StartDate: dates.New(y, time.January, 1),
			EndDate:   dates.New(y, time.December, 31),
		}
		if err := s.AddGrowingPeriod(gp); err != nil {
			return nil, err
		}
		s.AddProductCapacity(&domain.ProductCapacity{ProductTypeID: DemoHarvestTypeID, PeriodID: gp.ID, Capacity: decimal.NewFromInt(120)})
		s.AddProductCapacity(&domain.ProductCapacity{ProductTypeID: DemoEggsTypeID, PeriodID: gp.ID, Capacity: decimal.NewFromInt(40)})
		s.AddNoticePeriod(&domain.NoticePeriod{ProductTypeID: DemoHarvestTypeID, PeriodID: gp.ID, DurationMonths: 2})
	}

	s.AddProductType(&domain.ProductType{
		ID: DemoHarvestTypeID, Name: "Ernteanteile", DeliveryCycle: domain.Weekly,
		SubscriptionsHaveEndDates: true,
	})
	s.AddProductType(&domain.ProductType{
		ID: DemoEggsTypeID, Name: "Eier", DeliveryCycle: domain.EvenWeeks,
		SingleSubscriptionOnly: true, SubscriptionsHaveEndDates: true,
	})
	s.AddProductType(&domain.ProductType{
		ID: DemoMembershipID, Name: "Genossenschaftsanteile", DeliveryCycle: domain.NoDelivery,
	})

	validFrom := dates.New(year-1, time.January, 1)
	for _, p := range []struct {
		id, typeID, name string
		cents            int64
		size             string
		capacity         int
	}{
		{"harvest-s", DemoHarvestTypeID, "Ernteanteil S", 6500, "0.5", 0},
		{"harvest-m", DemoHarvestTypeID, "Ernteanteil M", 9500, "1", 0},
		{"harvest-l", DemoHarvestTypeID, "Ernteanteil L", 13500, "1.5", 0},
		{"eggs-6", DemoEggsTypeID, "6 Eier", 1200, "1", 30},
		{"coop-share", DemoMembershipID, "Genossenschaftsanteil", 5000, "1", 0},
	} {
		product := &domain.Product{ID: p.id, Name: p.name, TypeID: p.typeID}
		if p.capacity > 0 {
			c := p.capacity
			product.Capacity = &c
		}
		s.AddProduct(product)
		s.AddProductPrice(&domain.ProductPrice{
			ProductID: p.id,
			Price:     domain.NewMoney(p.cents),
			Size:      decimal.RequireFromString(p.size),
			ValidFrom: validFrom,
		})
	}

	s.AddPickupLocation(&domain.PickupLocation{ID: DemoLocationNorth, Name: "Hofladen Nord"})
	s.AddPickupLocation(&domain.PickupLocation{ID: DemoLocationSouth, Name: "Depot Süd"})
	s.AddOpeningTime(&domain.PickupLocationOpeningTime{PickupLocationID: DemoLocationNorth, DayOfWeek: 3, OpenTime: "15:00", CloseTime: "19:00"})
	s.AddOpeningTime(&domain.PickupLocationOpeningTime{PickupLocationID: DemoLocationSouth, DayOfWeek: 4, OpenTime: "16:00", CloseTime: "20:00"})

	northLimit := decimal.NewFromInt(60)
	s.AddCapability(&domain.PickupLocationCapability{PickupLocationID: DemoLocationNorth, ProductTypeID: DemoHarvestTypeID, MaxCapacity: &northLimit})
	s.AddCapability(&domain.PickupLocationCapability{PickupLocationID: DemoLocationNorth, ProductTypeID: DemoEggsTypeID})
	s.AddCapability(&domain.PickupLocationCapability{PickupLocationID: DemoLocationSouth, ProductTypeID: DemoHarvestTypeID})

	start := dates.New(year, time.January, 1)
	end := dates.New(year, time.December, 31)
	for i, member := range []string{"m-1001", "m-1002", "m-1003"} {
		s.AddMemberPickupLocation(&domain.MemberPickupLocation{MemberID: member, PickupLocationID: DemoLocationNorth, ValidFrom: start})
		s.AddSubscription(domain.SubscriptionData{
			ID:        fmt.Sprintf("sub-%s-harvest", member),
			MemberID:  member,
			ProductID: "harvest-m",
			Quantity:  i + 1,
			PeriodID:  fmt.Sprintf("season-%d", year),
			StartDate: start,
			EndDate:   &end,
			CreatedAt: start,
			Version:   1,
		})
		s.AddSubscription(domain.SubscriptionData{
			ID:        fmt.Sprintf("sub-%s-coop", member),
			MemberID:  member,
			ProductID: "coop-share",
			Quantity:  3,
			StartDate: start,
			CreatedAt: start,
			Version:   1,
		})
	}
	pct := decimal.NewFromInt(10)
	s.AddSubscription(domain.SubscriptionData{
		ID:                        "sub-m-1001-eggs",
		MemberID:                  "m-1001",
		ProductID:                 "eggs-6",
		Quantity:                  1,
		PeriodID:                  fmt.Sprintf("season-%d", year),
		StartDate:                 start,
		EndDate:                   &end,
		SolidarityPricePercentage: &pct,
		CreatedAt:                 start,
		Version:                   1,
	})

	s.AddWaitingListEntry(&domain.WaitingListEntry{
		ID:                   "wl-1",
		CreatedAt:            start,
		ProductWishes:        []domain.WaitingListProductWish{{ProductID: "harvest-s", Quantity: 2}},
		PickupLocationWishes: []domain.WaitingListPickupLocationWish{{PickupLocationID: DemoLocationNorth, Priority: 1}},
	})
	return s, nil
}
