package contract_dates

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
)

// Request contains the reference date, usually today.
type Request struct {
	ReferenceDate time.Time
}

// Dates are the key dates of a contract signed on the reference date.
type Dates struct {
	ContractStartDate time.Time
	// CoopSharePaymentDueDate is when cooperative shares valid from the start are paid.
	CoopSharePaymentDueDate time.Time
	// GrowingPeriodID and GrowingPeriodEnd are empty when no period contains the start.
	GrowingPeriodID  string
	GrowingPeriodEnd *time.Time
}

// Query handles the contract dates query.
type Query struct {
	store    contracts.Store
	services *services.Set
}

// NewQuery creates a new contract dates query.
func NewQuery(store contracts.Store, svc *services.Set) *Query {
	return &Query{store: store, services: svc}
}

// Execute computes the dates.
func (q *Query) Execute(ctx context.Context, req *Request) (*Dates, error) {
	rc := reqcache.New(q.store)
	start, err := q.services.ContractStart.NextContractStartDate(ctx, rc, req.ReferenceDate)
	if err != nil {
		return nil, err
	}
	due, err := q.services.PaymentDue.CoopSharePaymentDueDate(ctx, start)
	if err != nil {
		return nil, err
	}
	out := &Dates{ContractStartDate: start, CoopSharePaymentDueDate: due}

	period, err := rc.GrowingPeriodAt(ctx, start)
	if err != nil {
		return nil, err
	}
	if period != nil {
		end := period.EndDate
		out.GrowingPeriodID = period.ID
		out.GrowingPeriodEnd = &end
	}
	return out, nil
}
