package next_delivery

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
)

// Request names the pickup location, the cycle and the reference date.
type Request struct {
	PickupLocationID string
	Cycle            domain.DeliveryCycle
	ReferenceDate    time.Time
}

// Delivery is the next delivery of a cycle at a location.
type Delivery struct {
	PickupLocationID string
	Date             time.Time
	// ChangeDeadline is the last day changes reach the delivery of the reference week.
	ChangeDeadline time.Time
	// CyclesThisWeek lists the cycles delivered in the week of Date.
	CyclesThisWeek []domain.DeliveryCycle
}

// Query handles the next delivery query.
type Query struct {
	store    contracts.Store
	services *services.Set
}

// NewQuery creates a new next delivery query.
func NewQuery(store contracts.Store, svc *services.Set) *Query {
	return &Query{store: store, services: svc}
}

// Execute computes the next delivery.
func (q *Query) Execute(ctx context.Context, req *Request) (*Delivery, error) {
	rc := reqcache.New(q.store)
	if _, err := rc.PickupLocation(ctx, req.PickupLocationID); err != nil {
		return nil, err
	}

	delivery := q.services.Delivery
	date, err := delivery.NextDeliveryDateForCycle(ctx, rc, req.ReferenceDate, req.PickupLocationID, req.Cycle)
	if err != nil {
		return nil, err
	}
	deadline, err := delivery.DateLimitForDeliveryChangesInWeek(ctx, rc, req.ReferenceDate, req.PickupLocationID)
	if err != nil {
		return nil, err
	}
	cycles, err := delivery.CyclesDeliveredInWeek(ctx, date)
	if err != nil {
		return nil, err
	}
	return &Delivery{
		PickupLocationID: req.PickupLocationID,
		Date:             date,
		ChangeDeadline:   deadline,
		CyclesThisWeek:   cycles,
	}, nil
}
