package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/memstore"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/list_events"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/cancel_subscription"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/validate_order"
	"github.com/light-bringer/csa-service/internal/config"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func TestNewServiceOptions_MemoryMode(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(dates.New(2025, time.March, 10).Add(9 * time.Hour))
	cfg := config.Config{StoreMode: config.StoreModeMemory, ParameterCacheTTL: time.Minute}

	opts, err := NewServiceOptions(ctx, cfg, clk, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer opts.Close()
	assert.Nil(t, opts.SpannerClient)

	res, err := opts.ValidateOrder.Execute(ctx, &validate_order.Request{
		MemberID:         "m-1003",
		PickupLocationID: memstore.DemoLocationNorth,
		Lines:            []domain.OrderLine{{ProductID: "harvest-m", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)

	_, err = opts.CancelSubscription.Execute(ctx, &cancel_subscription.Request{SubscriptionID: "sub-m-1001-harvest"})
	require.NoError(t, err)

	events, err := opts.ListEvents.Execute(ctx, &list_events.Request{AggregateID: "sub-m-1001-harvest"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "subscription.cancelled", events[0].EventType)
}
