package renew_subscriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
	"github.com/light-bringer/csa-service/internal/pkg/committer"
	"github.com/light-bringer/csa-service/internal/pkg/metrics"
)

// Request controls a renewal run.
type Request struct {
	// DryRun reports the renewals without storing them.
	DryRun bool
}

// Renewal describes one subscription continued into the next growing period.
type Renewal struct {
	PreviousSubscriptionID string
	SubscriptionID         string
	MemberID               string
	ProductID              string
	PeriodID               string
	StartDate              time.Time
	EndDate                time.Time
}

// Response lists the renewals of the run.
type Response struct {
	Renewals []Renewal
	DryRun   bool
}

// Interactor handles the renew subscriptions use case.
type Interactor struct {
	store      contracts.Store
	repo       contracts.SubscriptionRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.PlanApplier
	services   *services.Set
	logger     *zap.Logger
}

// NewInteractor creates a new renew subscriptions interactor.
func NewInteractor(
	store contracts.Store,
	repo contracts.SubscriptionRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.PlanApplier,
	svc *services.Set,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		store:      store,
		repo:       repo,
		outboxRepo: outboxRepo,
		committer:  committer,
		services:   svc,
		logger:     logger.Named("renew_subscriptions"),
	}
}

// Execute creates the successor of every subscription whose notice cutoff has passed
// without a cancellation. All inserts and their outbox events commit in one plan.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	rc := reqcache.New(i.store)
	subs, err := rc.Subscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	var renewed []*domain.Subscription
	resp := &Response{DryRun: req.DryRun}
	for _, sub := range subs {
		must, err := i.services.Renewal.MustSubscriptionBeRenewed(ctx, rc, sub)
		if err != nil {
			return nil, fmt.Errorf("subscription %s: %w", sub.ID(), err)
		}
		if !must {
			continue
		}
		next, err := i.services.Renewal.BuildRenewedSubscription(ctx, rc, sub, uuid.New().String())
		if err != nil {
			return nil, fmt.Errorf("failed to renew subscription %s: %w", sub.ID(), err)
		}
		if next == nil {
			continue
		}
		renewed = append(renewed, next)
		resp.Renewals = append(resp.Renewals, Renewal{
			PreviousSubscriptionID: sub.ID(),
			SubscriptionID:         next.ID(),
			MemberID:               next.MemberID(),
			ProductID:              next.ProductID(),
			PeriodID:               next.PeriodID(),
			StartDate:              next.StartDate(),
			EndDate:                *next.EndDate(),
		})
	}

	if req.DryRun || len(renewed) == 0 {
		i.logger.Info("renewal run finished", zap.Int("renewals", len(renewed)), zap.Bool("dry_run", req.DryRun))
		return resp, nil
	}

	plan := committer.NewPlan()
	for _, sub := range renewed {
		plan.Add(i.repo.InsertMut(sub))
		for _, event := range sub.DomainEvents() {
			payload, err := serializeEvent(event)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize event: %w", err)
			}
			plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, payload)))
		}
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		i.logger.Error("failed to commit renewals", zap.Int("renewals", len(renewed)), zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, sub := range renewed {
		sub.ClearEvents()
	}
	metrics.SubscriptionsRenewed.Add(float64(len(renewed)))
	i.logger.Info("renewal run finished", zap.Int("renewals", len(renewed)))
	return resp, nil
}

// serializeEvent converts a domain event to JSON payload.
func serializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
