package cancel_subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
	"github.com/light-bringer/csa-service/internal/models/m_subscription"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/committer"
	"github.com/light-bringer/csa-service/internal/pkg/metrics"
)

// Request contains the subscription to cancel.
type Request struct {
	SubscriptionID string
}

// Response describes the outcome. Deleted is set when the subscription had not
// started and was removed instead of cancelled.
type Response struct {
	SubscriptionID string
	Deleted        bool
	EndDate        *time.Time
	CancelledAt    time.Time
}

// Interactor handles the cancel subscription use case.
type Interactor struct {
	store      contracts.Store
	repo       contracts.SubscriptionRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.PlanApplier
	services   *services.Set
	clock      clock.Clock
	logger     *zap.Logger
}

// NewInteractor creates a new cancel subscription interactor.
func NewInteractor(
	store contracts.Store,
	repo contracts.SubscriptionRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.PlanApplier,
	svc *services.Set,
	clk clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		store:      store,
		repo:       repo,
		outboxRepo: outboxRepo,
		committer:  committer,
		services:   svc,
		clock:      clk,
		logger:     logger.Named("cancel_subscription"),
	}
}

// Execute cancels a subscription following the Golden Mutation Pattern. A subscription
// that has not started yet is deleted. One in its trial period ends at the earliest
// trial cancellation date; any other keeps its end date.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Load aggregate
	sub, err := i.repo.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}

	now := i.clock.Now()
	today := clock.Today(i.clock)
	plan := committer.NewPlan()
	resp := &Response{SubscriptionID: sub.ID(), CancelledAt: now}
	kind := metrics.KindCancelled

	// 2. Call domain method and add repository mutation
	if sub.StartDate().After(today) {
		sub.MarkDeleted(now)
		plan.Add(i.repo.DeleteMut(sub.ID()))
		resp.Deleted = true
		kind = metrics.KindDeleted
	} else {
		end, err := i.trialEnd(ctx, sub, today)
		if err != nil {
			return nil, err
		}
		if err := sub.Cancel(now, end); err != nil {
			return nil, err
		}
		if mut := i.repo.UpdateMut(sub); mut != nil {
			plan.Add(mut)
		}
		resp.EndDate = sub.EndDate()
	}

	// 3. Add outbox events
	for _, event := range sub.DomainEvents() {
		payload, err := serializeEvent(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, payload)))
	}

	// 4. Apply plan
	err = i.committer.ApplyWithVersionCheck(ctx, m_subscription.TableName, spanner.Key{sub.ID()}, sub.Version(), plan)
	if errors.Is(err, committer.ErrVersionConflict) {
		return nil, err
	}
	if err != nil {
		i.logger.Error("failed to commit cancellation", zap.String("subscription_id", sub.ID()), zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	sub.ClearEvents()
	metrics.SubscriptionsCancelled.WithLabelValues(kind).Inc()
	i.logger.Info("subscription cancelled",
		zap.String("subscription_id", sub.ID()),
		zap.String("member_id", sub.MemberID()),
		zap.Bool("deleted", resp.Deleted))
	return resp, nil
}

// trialEnd returns the end date a cancellation during the trial takes effect on, or nil
// when the subscription is past its trial.
func (i *Interactor) trialEnd(ctx context.Context, sub *domain.Subscription, today time.Time) (*time.Time, error) {
	inTrial, err := i.services.Trial.IsSubscriptionInTrial(ctx, sub, today)
	if err != nil || !inTrial {
		return nil, err
	}
	end, err := i.services.Trial.EarliestTrialCancellationDate(ctx, reqcache.New(i.store), sub)
	if err != nil {
		return nil, err
	}
	return &end, nil
}

// serializeEvent converts a domain event to JSON payload.
func serializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
