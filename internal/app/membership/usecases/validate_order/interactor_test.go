package validate_order

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/memstore"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
	"github.com/light-bringer/csa-service/internal/pkg/metrics"
)

func newInteractor(t *testing.T) *Interactor {
	t.Helper()
	today := dates.New(2025, time.March, 10)
	store, err := memstore.NewDemo(today)
	require.NoError(t, err)
	clk := clock.NewMockClock(today.Add(9 * time.Hour))
	svc := services.NewSet(params.NewStatic(nil), clk)
	return NewInteractor(store, svc, clk, zaptest.NewLogger(t))
}

func TestValidateOrder_Accepted(t *testing.T) {
	i := newInteractor(t)
	before := testutil.ToFloat64(metrics.OrderValidations.WithLabelValues(metrics.ResultAccepted))

	resp, err := i.Execute(context.Background(), &Request{
		PickupLocationID: memstore.DemoLocationNorth,
		Lines:            []domain.OrderLine{{ProductID: "harvest-m", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Violations)
	assert.Equal(t, 0, dates.Weekday(resp.ContractStartDate), "contracts start on Mondays")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrderValidations.WithLabelValues(metrics.ResultAccepted)))
}

func TestValidateOrder_Rejected(t *testing.T) {
	pct := decimal.NewFromInt(-50)

	tests := []struct {
		name       string
		req        *Request
		constraint domain.Constraint
	}{
		{
			name:       "no pickup location for a delivered product",
			req:        &Request{Lines: []domain.OrderLine{{ProductID: "harvest-s", Quantity: 1}}},
			constraint: domain.ConstraintPickupLocationRequired,
		},
		{
			name: "location does not serve the product type",
			req: &Request{
				PickupLocationID: memstore.DemoLocationSouth,
				Lines:            []domain.OrderLine{{ProductID: "eggs-6", Quantity: 1}},
			},
			constraint: domain.ConstraintPickupLocationCapacity,
		},
		{
			name: "more shares than the season holds",
			req: &Request{
				PickupLocationID: memstore.DemoLocationSouth,
				Lines:            []domain.OrderLine{{ProductID: "harvest-l", Quantity: 80}},
			},
			constraint: domain.ConstraintProductTypeCapacity,
		},
		{
			name: "single subscription type ordered twice",
			req: &Request{
				PickupLocationID: memstore.DemoLocationNorth,
				Lines:            []domain.OrderLine{{ProductID: "eggs-6", Quantity: 2}},
			},
			constraint: domain.ConstraintSingleSubscriptionOnly,
		},
		{
			name: "solidarity discount beyond the pool",
			req: &Request{
				PickupLocationID:     memstore.DemoLocationNorth,
				Lines:                []domain.OrderLine{{ProductID: "harvest-l", Quantity: 1}},
				SolidarityPercentage: &pct,
			},
			constraint: domain.ConstraintSolidarityPrice,
		},
		{
			name: "member shrinks a running contract",
			req: &Request{
				MemberID: "m-1002",
				Lines:    []domain.OrderLine{{ProductID: "harvest-s", Quantity: 1}},
			},
			constraint: domain.ConstraintSizeReduction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newInteractor(t)
			before := testutil.ToFloat64(metrics.OrderValidations.WithLabelValues(metrics.ResultRejected))

			resp, err := i.Execute(context.Background(), tt.req)
			require.NoError(t, err)

			assert.False(t, resp.Valid)
			ve := &domain.ValidationError{Violations: resp.Violations}
			assert.True(t, ve.Has(tt.constraint), "violations: %v", resp.Violations)
			assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrderValidations.WithLabelValues(metrics.ResultRejected)))
		})
	}
}

func TestValidateOrder_Errors(t *testing.T) {
	start := dates.New(2025, time.March, 17)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "empty cart",
			req:     &Request{Lines: []domain.OrderLine{{ProductID: "harvest-s", Quantity: 0}}},
			wantErr: domain.ErrEmptyOrder,
		},
		{
			name: "duplicate line",
			req: &Request{Lines: []domain.OrderLine{
				{ProductID: "harvest-s", Quantity: 1},
				{ProductID: "harvest-s", Quantity: 2},
			}},
			wantErr: domain.ErrDuplicateOrderLine,
		},
		{
			name: "unknown product",
			req: &Request{
				ContractStartDate: &start,
				Lines:             []domain.OrderLine{{ProductID: "harvest-xxl", Quantity: 1}},
			},
			wantErr: domain.ErrProductNotFound,
		},
		{
			name: "both solidarity forms",
			req: &Request{
				ContractStartDate:    &start,
				Lines:                []domain.OrderLine{{ProductID: "harvest-s", Quantity: 1}},
				SolidarityPercentage: decimalPtr(10),
				SolidarityAbsolute:   moneyPtr(domain.NewMoney(500)),
			},
			wantErr: domain.ErrBothSolidarityPrices,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newInteractor(t)
			_, err := i.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateOrder_ExplicitContractStart(t *testing.T) {
	i := newInteractor(t)
	start := dates.New(2025, time.April, 7)

	resp, err := i.Execute(context.Background(), &Request{
		MemberID:          "m-1002",
		ContractStartDate: &start,
		Lines:             []domain.OrderLine{{ProductID: "harvest-m", Quantity: 3}},
	})
	require.NoError(t, err)

	assert.True(t, resp.Valid, "member location is used when none is given: %v", resp.Violations)
	assert.Equal(t, start, resp.ContractStartDate)
}

func TestValidateOrder_RejectsIllegalContractStart(t *testing.T) {
	lines := []domain.OrderLine{{ProductID: "harvest-m", Quantity: 1}}

	tests := []struct {
		name    string
		start   time.Time
		isAdmin bool
		wantErr error
	}{
		{name: "mid-week", start: dates.New(2025, time.March, 19), wantErr: domain.ErrInvalidContractStart},
		{name: "mid-week as admin", start: dates.New(2025, time.March, 19), isAdmin: true, wantErr: domain.ErrInvalidContractStart},
		{name: "past Monday", start: dates.New(2025, time.March, 3), wantErr: domain.ErrInvalidContractStart},
		{name: "past Monday as admin", start: dates.New(2025, time.March, 3), isAdmin: true},
		{name: "next possible start", start: dates.New(2025, time.March, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newInteractor(t)
			start := tt.start
			resp, err := i.Execute(context.Background(), &Request{
				PickupLocationID:  memstore.DemoLocationNorth,
				ContractStartDate: &start,
				Lines:             lines,
				IsAdmin:           tt.isAdmin,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, resp.ContractStartDate)
		})
	}
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func moneyPtr(m domain.Money) *domain.Money {
	return &m
}
