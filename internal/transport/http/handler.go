package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/capacity_overview"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/contract_dates"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/list_events"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/next_delivery"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/cancel_subscription"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/renew_subscriptions"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/services"
)

// API exposes the membership use cases over HTTP.
type API struct {
	opts   *services.ServiceOptions
	clock  clock.Clock
	logger *zap.Logger
}

func NewAPI(opts *services.ServiceOptions, clk clock.Clock, logger *zap.Logger) *API {
	return &API{opts: opts, clock: clk, logger: logger.Named("api")}
}

// Register wires the routes.
func (a *API) Register(e *echo.Echo) {
	e.GET("/healthz", a.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.POST("/orders/validate", a.ValidateOrder)
	v1.GET("/contract-dates", a.ContractDates)
	v1.GET("/capacity", a.Capacity)
	v1.GET("/pickup-locations/:id/next-delivery", a.NextDelivery)
	v1.POST("/subscriptions/renew", a.RenewSubscriptions)
	v1.POST("/subscriptions/:id/cancel", a.CancelSubscription)
	v1.GET("/events", a.ListEvents)
}

func (a *API) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ValidateOrder checks a cart. Rejected orders are answered with 200 and valid=false.
func (a *API) ValidateOrder(c echo.Context) error {
	var body ValidateOrderRequest
	if err := c.Bind(&body); err != nil {
		return err
	}
	if err := c.Validate(&body); err != nil {
		return a.toHTTPError(err)
	}
	req, err := body.toRequest()
	if err != nil {
		return badRequest(err)
	}

	res, err := a.opts.ValidateOrder.Execute(c.Request().Context(), req)
	if err != nil {
		return a.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newValidateOrderResponse(res))
}

func (a *API) ContractDates(c echo.Context) error {
	ref, err := a.dateParam(c, "reference_date")
	if err != nil {
		return badRequest(err)
	}
	res, err := a.opts.ContractDates.Execute(c.Request().Context(), &contract_dates.Request{ReferenceDate: ref})
	if err != nil {
		return a.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newContractDatesResponse(res))
}

func (a *API) Capacity(c echo.Context) error {
	date, err := a.dateParam(c, "date")
	if err != nil {
		return badRequest(err)
	}
	res, err := a.opts.CapacityOverview.Execute(c.Request().Context(), &capacity_overview.Request{Date: date})
	if err != nil {
		return a.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newCapacityResponse(res))
}

func (a *API) NextDelivery(c echo.Context) error {
	cycle, err := domain.ParseDeliveryCycle(c.QueryParam("cycle"))
	if err != nil {
		return badRequest(err)
	}
	date, err := a.dateParam(c, "date")
	if err != nil {
		return badRequest(err)
	}
	res, err := a.opts.NextDelivery.Execute(c.Request().Context(), &next_delivery.Request{
		PickupLocationID: c.Param("id"),
		Cycle:            cycle,
		ReferenceDate:    date,
	})
	if err != nil {
		return a.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newNextDeliveryResponse(res))
}

func (a *API) CancelSubscription(c echo.Context) error {
	res, err := a.opts.CancelSubscription.Execute(c.Request().Context(), &cancel_subscription.Request{
		SubscriptionID: c.Param("id"),
	})
	if err != nil {
		return a.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newCancelSubscriptionResponse(res))
}

func (a *API) RenewSubscriptions(c echo.Context) error {
	dryRun := false
	if raw := c.QueryParam("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(err)
		}
		dryRun = v
	}
	res, err := a.opts.RenewSubscriptions.Execute(c.Request().Context(), &renew_subscriptions.Request{DryRun: dryRun})
	if err != nil {
		return a.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newRenewSubscriptionsResponse(res))
}

// ListEvents handles GET /api/v1/events.
func (a *API) ListEvents(c echo.Context) error {
	req := &list_events.Request{
		EventType:   c.QueryParam("event_type"),
		AggregateID: c.QueryParam("aggregate_id"),
		Status:      c.QueryParam("status"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(err)
		}
		req.Limit = limit
	}

	events, err := a.opts.ListEvents.Execute(c.Request().Context(), req)
	if err != nil {
		return a.toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newListEventsResponse(events))
}

// dateParam parses an optional YYYY-MM-DD query parameter, defaulting to today.
func (a *API) dateParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return clock.Today(a.clock), nil
	}
	return parseDate(raw)
}
