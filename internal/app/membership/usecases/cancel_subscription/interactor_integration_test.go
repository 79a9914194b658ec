//go:build integration

package cancel_subscription

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/repo"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
	"github.com/light-bringer/csa-service/internal/models/m_outbox"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/committer"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
	"github.com/light-bringer/csa-service/internal/testutil"
)

// TestConcurrentCancellation cancels the same subscription from two goroutines.
// Expected: one succeeds, the other hits the version check or finds it cancelled.
func TestConcurrentCancellation(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupSpannerTest(t)

	subs := repo.NewSubscriptionRepo(client)
	outbox := repo.NewOutboxRepo()
	comm := committer.NewCommitter(client)

	end := dates.New(2025, time.December, 31)
	sub, err := domain.NewSubscription(domain.SubscriptionData{
		ID:        "sub-race",
		MemberID:  "m-1",
		ProductID: "harvest-m",
		Quantity:  1,
		PeriodID:  "season-2025",
		StartDate: dates.New(2025, time.January, 1),
		EndDate:   &end,
	}, time.Now().UTC())
	require.NoError(t, err)
	plan := committer.NewPlan()
	plan.Add(subs.InsertMut(sub))
	require.NoError(t, comm.Apply(ctx, plan))

	clk := clock.NewMockClock(today.Add(9 * time.Hour))
	svc := services.NewSet(params.NewStatic(map[params.Key]string{params.TrialPeriodEnabled: "false"}), clk)
	interactor := NewInteractor(repo.NewStore(client), subs, outbox, comm, svc, clk, zaptest.NewLogger(t))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	for i := range errs {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = interactor.Execute(ctx, &Request{SubscriptionID: "sub-race"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, committer.ErrVersionConflict) || errors.Is(err, domain.ErrAlreadyCancelled),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded, "errors: %v", errs)

	stored, err := subs.GetByID(ctx, "sub-race")
	require.NoError(t, err)
	assert.True(t, stored.IsCancelled())
	assert.Equal(t, int64(2), stored.Version())
	assert.Equal(t, end, *stored.EndDate())
	testutil.AssertRowCount(t, client, m_outbox.TableName, 1)
}

// TestCancelFutureSubscriptionDeletesRow checks that a subscription that has not
// started is removed from Spanner.
func TestCancelFutureSubscriptionDeletesRow(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupSpannerTest(t)

	subs := repo.NewSubscriptionRepo(client)
	comm := committer.NewCommitter(client)

	end := dates.New(2026, time.December, 31)
	sub, err := domain.NewSubscription(domain.SubscriptionData{
		ID:        "sub-future",
		MemberID:  "m-1",
		ProductID: "harvest-m",
		Quantity:  1,
		PeriodID:  "season-2026",
		StartDate: dates.New(2026, time.January, 1),
		EndDate:   &end,
	}, time.Now().UTC())
	require.NoError(t, err)
	plan := committer.NewPlan()
	plan.Add(subs.InsertMut(sub))
	require.NoError(t, comm.Apply(ctx, plan))

	clk := clock.NewMockClock(today.Add(9 * time.Hour))
	svc := services.NewSet(params.NewStatic(nil), clk)
	interactor := NewInteractor(repo.NewStore(client), subs, repo.NewOutboxRepo(), comm, svc, clk, zaptest.NewLogger(t))

	res, err := interactor.Execute(ctx, &Request{SubscriptionID: "sub-future"})
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	_, err = subs.GetByID(ctx, "sub-future")
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)

	events, err := repo.NewEventsReadModel(client).ListEvents(ctx, contracts.EventFilter{AggregateID: "sub-future"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "subscription.deleted", events[0].EventType)
}
