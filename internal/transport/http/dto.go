package http

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/capacity_overview"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/contract_dates"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/next_delivery"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/cancel_subscription"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/renew_subscriptions"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/validate_order"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// ValidateOrderRequest is the body of POST /api/v1/orders/validate.
type ValidateOrderRequest struct {
	MemberID                     string      `json:"member_id"`
	PickupLocationID             string      `json:"pickup_location_id"`
	ContractStartDate            string      `json:"contract_start_date" validate:"omitempty,datetime=2006-01-02"`
	Lines                        []OrderLine `json:"lines" validate:"dive"`
	SolidarityPercentage         *string     `json:"solidarity_percentage" validate:"omitempty,numeric"`
	SolidarityAbsolute           *string     `json:"solidarity_absolute" validate:"omitempty,numeric"`
	RequireMandatoryProductTypes bool        `json:"require_mandatory_product_types"`
	IsAdmin                      bool        `json:"is_admin"`
}

func (r *ValidateOrderRequest) toRequest() (*validate_order.Request, error) {
	req := &validate_order.Request{
		MemberID:                     r.MemberID,
		PickupLocationID:             r.PickupLocationID,
		RequireMandatoryProductTypes: r.RequireMandatoryProductTypes,
		IsAdmin:                      r.IsAdmin,
	}
	for _, l := range r.Lines {
		req.Lines = append(req.Lines, domain.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	if r.ContractStartDate != "" {
		d, err := parseDate(r.ContractStartDate)
		if err != nil {
			return nil, err
		}
		req.ContractStartDate = &d
	}
	if r.SolidarityPercentage != nil {
		p, err := decimal.NewFromString(*r.SolidarityPercentage)
		if err != nil {
			return nil, fmt.Errorf("invalid solidarity_percentage: %w", err)
		}
		req.SolidarityPercentage = &p
	}
	if r.SolidarityAbsolute != nil {
		m, err := domain.ParseMoney(*r.SolidarityAbsolute)
		if err != nil {
			return nil, fmt.Errorf("invalid solidarity_absolute: %w", err)
		}
		req.SolidarityAbsolute = &m
	}
	return req, nil
}

type ValidateOrderResponse struct {
	Valid             bool               `json:"valid"`
	ContractStartDate string             `json:"contract_start_date"`
	Violations        []domain.Violation `json:"violations"`
}

func newValidateOrderResponse(res *validate_order.Response) ValidateOrderResponse {
	violations := res.Violations
	if violations == nil {
		violations = []domain.Violation{}
	}
	return ValidateOrderResponse{
		Valid:             res.Valid,
		ContractStartDate: formatDate(res.ContractStartDate),
		Violations:        violations,
	}
}

type ContractDatesResponse struct {
	ContractStartDate       string  `json:"contract_start_date"`
	CoopSharePaymentDueDate string  `json:"coop_share_payment_due_date"`
	GrowingPeriodID         string  `json:"growing_period_id,omitempty"`
	GrowingPeriodEnd        *string `json:"growing_period_end,omitempty"`
}

func newContractDatesResponse(d *contract_dates.Dates) ContractDatesResponse {
	return ContractDatesResponse{
		ContractStartDate:       formatDate(d.ContractStartDate),
		CoopSharePaymentDueDate: formatDate(d.CoopSharePaymentDueDate),
		GrowingPeriodID:         d.GrowingPeriodID,
		GrowingPeriodEnd:        formatDatePtr(d.GrowingPeriodEnd),
	}
}

// Capacities are rendered as decimal strings; null means unlimited.
type ProductTypeCapacity struct {
	ProductTypeID   string           `json:"product_type_id"`
	Name            string           `json:"name"`
	Total           *decimal.Decimal `json:"total"`
	Used            decimal.Decimal  `json:"used"`
	Free            *decimal.Decimal `json:"free"`
	LowestFreeAhead *decimal.Decimal `json:"lowest_free_ahead"`
}

type ProductCapacity struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Capacity  int              `json:"capacity"`
	Free      *decimal.Decimal `json:"free"`
}

type CapacityResponse struct {
	Date         string                `json:"date"`
	ProductTypes []ProductTypeCapacity `json:"product_types"`
	Products     []ProductCapacity     `json:"products"`
}

func newCapacityResponse(o *capacity_overview.Overview) CapacityResponse {
	res := CapacityResponse{
		Date:         formatDate(o.Date),
		ProductTypes: make([]ProductTypeCapacity, 0, len(o.ProductTypes)),
		Products:     make([]ProductCapacity, 0, len(o.Products)),
	}
	for _, pt := range o.ProductTypes {
		res.ProductTypes = append(res.ProductTypes, ProductTypeCapacity{
			ProductTypeID:   pt.ProductTypeID,
			Name:            pt.Name,
			Total:           capacityValue(pt.Total),
			Used:            pt.Used,
			Free:            capacityValue(pt.Free),
			LowestFreeAhead: capacityValue(pt.LowestFreeAhead),
		})
	}
	for _, p := range o.Products {
		res.Products = append(res.Products, ProductCapacity{
			ProductID: p.ProductID,
			Name:      p.Name,
			Capacity:  p.Capacity,
			Free:      capacityValue(p.Free),
		})
	}
	return res
}

func capacityValue(c domain.Capacity) *decimal.Decimal {
	if c.IsUnlimited() {
		return nil
	}
	v := c.Value()
	return &v
}

type NextDeliveryResponse struct {
	PickupLocationID string   `json:"pickup_location_id"`
	Date             string   `json:"date"`
	ChangeDeadline   string   `json:"change_deadline"`
	CyclesThisWeek   []string `json:"cycles_this_week"`
}

func newNextDeliveryResponse(d *next_delivery.Delivery) NextDeliveryResponse {
	cycles := make([]string, 0, len(d.CyclesThisWeek))
	for _, c := range d.CyclesThisWeek {
		cycles = append(cycles, c.String())
	}
	return NextDeliveryResponse{
		PickupLocationID: d.PickupLocationID,
		Date:             formatDate(d.Date),
		ChangeDeadline:   formatDate(d.ChangeDeadline),
		CyclesThisWeek:   cycles,
	}
}

type CancelSubscriptionResponse struct {
	SubscriptionID string    `json:"subscription_id"`
	Deleted        bool      `json:"deleted"`
	EndDate        *string   `json:"end_date,omitempty"`
	CancelledAt    time.Time `json:"cancelled_at"`
}

func newCancelSubscriptionResponse(r *cancel_subscription.Response) CancelSubscriptionResponse {
	return CancelSubscriptionResponse{
		SubscriptionID: r.SubscriptionID,
		Deleted:        r.Deleted,
		EndDate:        formatDatePtr(r.EndDate),
		CancelledAt:    r.CancelledAt,
	}
}

type Renewal struct {
	PreviousSubscriptionID string `json:"previous_subscription_id"`
	SubscriptionID         string `json:"subscription_id"`
	MemberID               string `json:"member_id"`
	ProductID              string `json:"product_id"`
	PeriodID               string `json:"period_id"`
	StartDate              string `json:"start_date"`
	EndDate                string `json:"end_date"`
}

type RenewSubscriptionsResponse struct {
	DryRun   bool      `json:"dry_run"`
	Renewals []Renewal `json:"renewals"`
}

func newRenewSubscriptionsResponse(r *renew_subscriptions.Response) RenewSubscriptionsResponse {
	res := RenewSubscriptionsResponse{DryRun: r.DryRun, Renewals: make([]Renewal, 0, len(r.Renewals))}
	for _, rn := range r.Renewals {
		res.Renewals = append(res.Renewals, Renewal{
			PreviousSubscriptionID: rn.PreviousSubscriptionID,
			SubscriptionID:         rn.SubscriptionID,
			MemberID:               rn.MemberID,
			ProductID:              rn.ProductID,
			PeriodID:               rn.PeriodID,
			StartDate:              formatDate(rn.StartDate),
			EndDate:                formatDate(rn.EndDate),
		})
	}
	return res
}

// Event represents an outbox event in the HTTP response.
type Event struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	Payload     string    `json:"payload"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events []Event `json:"events"`
}

func newListEventsResponse(events []*contracts.OutboxEvent) ListEventsResponse {
	res := ListEventsResponse{Events: make([]Event, 0, len(events))}
	for _, e := range events {
		res.Events = append(res.Events, Event{
			EventID:     e.EventID,
			EventType:   e.EventType,
			AggregateID: e.AggregateID,
			Payload:     e.Payload,
			Status:      e.Status,
			CreatedAt:   e.CreatedAt,
		})
	}
	return res
}

func parseDate(s string) (time.Time, error) {
	return dates.Parse(s)
}

func formatDate(t time.Time) string {
	return dates.Format(t)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}
