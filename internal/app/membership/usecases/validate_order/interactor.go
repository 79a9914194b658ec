package validate_order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
	"github.com/light-bringer/csa-service/internal/pkg/metrics"
)

// Request is a shopping cart submitted for validation.
type Request struct {
	// MemberID is empty for a signup.
	MemberID         string
	PickupLocationID string
	// ContractStartDate defaults to the next possible contract start. A given date must
	// be a Monday; unless IsAdmin, it must also still be open for changes.
	ContractStartDate            *time.Time
	Lines                        []domain.OrderLine
	SolidarityPercentage         *decimal.Decimal
	SolidarityAbsolute           *domain.Money
	RequireMandatoryProductTypes bool
	IsAdmin                      bool
}

// Response lists the violations; Valid is true when there are none.
type Response struct {
	Valid             bool
	ContractStartDate time.Time
	Violations        []domain.Violation
}

// Interactor handles the validate order use case.
type Interactor struct {
	store    contracts.Store
	services *services.Set
	clock    clock.Clock
	logger   *zap.Logger
}

// NewInteractor creates a new validate order interactor.
func NewInteractor(store contracts.Store, svc *services.Set, clk clock.Clock, logger *zap.Logger) *Interactor {
	return &Interactor{
		store:    store,
		services: svc,
		clock:    clk,
		logger:   logger.Named("validate_order"),
	}
}

// Execute validates the order against every capacity and business constraint.
// Violations are reported in the response; the error is reserved for unknown
// references and infrastructure or configuration failures.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	order, err := domain.NewOrder(req.Lines)
	if err != nil {
		return nil, err
	}
	if order.IsEmpty() {
		return nil, domain.ErrEmptyOrder
	}

	rc := reqcache.New(i.store)
	start, err := i.contractStart(ctx, rc, req)
	if err != nil {
		metrics.OrderValidations.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	err = i.services.OrderValidator.Validate(ctx, rc, &services.OrderRequest{
		Order:             order,
		MemberID:          req.MemberID,
		PickupLocationID:  req.PickupLocationID,
		ContractStartDate: start,
		Solidarity: domain.SolidarityRequest{
			Percentage: req.SolidarityPercentage,
			Absolute:   req.SolidarityAbsolute,
		},
		// Waiting-list reservations only hold against people who are not members yet.
		CheckWaitingList:             req.MemberID == "",
		RequireMandatoryProductTypes: req.RequireMandatoryProductTypes,
		IsAdmin:                      req.IsAdmin,
	})

	var ve *domain.ValidationError
	switch {
	case err == nil:
		metrics.OrderValidations.WithLabelValues(metrics.ResultAccepted).Inc()
		return &Response{Valid: true, ContractStartDate: start}, nil
	case errors.As(err, &ve):
		metrics.OrderValidations.WithLabelValues(metrics.ResultRejected).Inc()
		i.logger.Info("order rejected",
			zap.String("member_id", req.MemberID),
			zap.Int("violations", len(ve.Violations)),
			zap.Any("constraints", constraints(ve)))
		return &Response{ContractStartDate: start, Violations: ve.Violations}, nil
	default:
		metrics.OrderValidations.WithLabelValues(metrics.ResultError).Inc()
		if !domain.IsNotFound(err) {
			i.logger.Error("order validation failed", zap.String("member_id", req.MemberID), zap.Error(err))
		}
		return nil, err
	}
}

func (i *Interactor) contractStart(ctx context.Context, rc *reqcache.Cache, req *Request) (time.Time, error) {
	if req.ContractStartDate != nil {
		start := *req.ContractStartDate
		if dates.Weekday(start) != 0 {
			return time.Time{}, fmt.Errorf("%w: %s is not a Monday", domain.ErrInvalidContractStart, dates.Format(start))
		}
		if req.IsAdmin {
			return start, nil
		}
		ok, err := i.services.ContractStart.CanContractStartOnDate(ctx, rc, start)
		if err != nil {
			return time.Time{}, err
		}
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %s is past the change deadline", domain.ErrInvalidContractStart, dates.Format(start))
		}
		return start, nil
	}
	return i.services.ContractStart.NextContractStartDate(ctx, rc, clock.Today(i.clock))
}

func constraints(ve *domain.ValidationError) []domain.Constraint {
	out := make([]domain.Constraint, 0, len(ve.Violations))
	for _, v := range ve.Violations {
		out = append(out, v.Constraint)
	}
	return out
}
