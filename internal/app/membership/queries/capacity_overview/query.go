package capacity_overview

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
)

// Request contains the date the overview is computed for.
type Request struct {
	Date time.Time
}

// ProductTypeCapacity is the capacity situation of one product type.
type ProductTypeCapacity struct {
	ProductTypeID string
	Name          string
	Total         domain.Capacity
	Used          decimal.Decimal
	Free          domain.Capacity
	// LowestFreeAhead is the smallest free capacity from Date on, renewals included.
	LowestFreeAhead domain.Capacity
}

// ProductCapacity is the flat unit ceiling of a product that has one.
type ProductCapacity struct {
	ProductID string
	Name      string
	Capacity  int
	Free      domain.Capacity
}

// Overview lists every delivered product type and every capped product.
type Overview struct {
	Date         time.Time
	ProductTypes []ProductTypeCapacity
	Products     []ProductCapacity
}

// Query handles the capacity overview query.
type Query struct {
	store    contracts.Store
	services *services.Set
}

// NewQuery creates a new capacity overview query.
func NewQuery(store contracts.Store, svc *services.Set) *Query {
	return &Query{store: store, services: svc}
}

// Execute computes the overview.
func (q *Query) Execute(ctx context.Context, req *Request) (*Overview, error) {
	rc := reqcache.New(q.store)
	types, err := rc.ProductTypes(ctx)
	if err != nil {
		return nil, err
	}

	out := &Overview{Date: req.Date}
	calc := q.services.ProductTypeCapacity
	for _, pt := range types {
		total, err := calc.TotalCapacityAtDate(ctx, rc, pt.ID, req.Date)
		if err != nil {
			return nil, err
		}
		used, err := calc.UsedCapacityAtDate(ctx, rc, pt.ID, req.Date)
		if err != nil {
			return nil, err
		}
		lowest, err := calc.LowestFreeCapacityAfterDate(ctx, rc, pt.ID, req.Date)
		if err != nil {
			return nil, err
		}
		out.ProductTypes = append(out.ProductTypes, ProductTypeCapacity{
			ProductTypeID:   pt.ID,
			Name:            pt.Name,
			Total:           total,
			Used:            used,
			Free:            total.Sub(used),
			LowestFreeAhead: lowest,
		})
	}

	products, err := rc.Products(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.Capacity == nil || p.Deleted {
			continue
		}
		free, err := q.services.ProductCapacity.FreeCapacityAfterDate(ctx, rc, p.ID, req.Date)
		if err != nil {
			return nil, err
		}
		out.Products = append(out.Products, ProductCapacity{
			ProductID: p.ID,
			Name:      p.Name,
			Capacity:  *p.Capacity,
			Free:      free,
		})
	}
	return out, nil
}
