package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/memstore"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/capacity_overview"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/contract_dates"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/list_events"
	"github.com/light-bringer/csa-service/internal/app/membership/queries/next_delivery"
	"github.com/light-bringer/csa-service/internal/app/membership/repo"
	membership "github.com/light-bringer/csa-service/internal/app/membership/services"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/cancel_subscription"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/renew_subscriptions"
	"github.com/light-bringer/csa-service/internal/app/membership/usecases/validate_order"
	"github.com/light-bringer/csa-service/internal/config"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/committer"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Params        *params.Store

	ValidateOrder      *validate_order.Interactor
	CancelSubscription *cancel_subscription.Interactor
	RenewSubscriptions *renew_subscriptions.Interactor

	ContractDates    *contract_dates.Query
	CapacityOverview *capacity_overview.Query
	NextDelivery     *next_delivery.Query
	ListEvents       *list_events.Query
}

// backend is the storage a ServiceOptions is wired against.
type backend struct {
	store      contracts.Store
	paramSrc   params.Source
	subs       contracts.SubscriptionRepository
	outbox     contracts.OutboxRepository
	applier    contracts.PlanApplier
	events     contracts.EventReader
	spannerCli *spanner.Client
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg config.Config, clk clock.Clock, logger *zap.Logger) (*ServiceOptions, error) {
	var (
		b   *backend
		err error
	)
	switch cfg.StoreMode {
	case config.StoreModeMemory:
		b, err = memoryBackend(clk)
	default:
		b, err = spannerBackend(ctx, cfg.SpannerDB)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("storage initialised", zap.String("store_mode", cfg.StoreMode))

	paramStore := params.NewStore(b.paramSrc, cfg.ParameterCacheTTL, clk)
	svc := membership.NewSet(paramStore, clk)

	return &ServiceOptions{
		SpannerClient: b.spannerCli,
		Params:        paramStore,

		ValidateOrder:      validate_order.NewInteractor(b.store, svc, clk, logger),
		CancelSubscription: cancel_subscription.NewInteractor(b.store, b.subs, b.outbox, b.applier, svc, clk, logger),
		RenewSubscriptions: renew_subscriptions.NewInteractor(b.store, b.subs, b.outbox, b.applier, svc, logger),

		ContractDates:    contract_dates.NewQuery(b.store, svc),
		CapacityOverview: capacity_overview.NewQuery(b.store, svc),
		NextDelivery:     next_delivery.NewQuery(b.store, svc),
		ListEvents:       list_events.NewQuery(b.events),
	}, nil
}

func spannerBackend(ctx context.Context, spannerDB string) (*backend, error) {
	client, err := spanner.NewClient(ctx, spannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}
	store := repo.NewStore(client)
	return &backend{
		store:      store,
		paramSrc:   store,
		subs:       repo.NewSubscriptionRepo(client),
		outbox:     repo.NewOutboxRepo(),
		applier:    committer.NewCommitter(client),
		events:     repo.NewEventsReadModel(client),
		spannerCli: client,
	}, nil
}

func memoryBackend(clk clock.Clock) (*backend, error) {
	store, err := memstore.NewDemo(clock.Today(clk))
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo data: %w", err)
	}
	return &backend{
		store:    store,
		paramSrc: store,
		subs:     store.SubscriptionRepo(),
		outbox:   store.OutboxRepo(),
		applier:  store,
		events:   store,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
