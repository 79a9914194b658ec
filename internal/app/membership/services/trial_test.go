package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func trialSubscription(start time.Time) *domain.Subscription {
	return domain.ReconstructSubscription(domain.SubscriptionData{
		ID: "sub-1", MemberID: "m1", ProductID: "s", Quantity: 1, PeriodID: "2025", StartDate: start,
	})
}

func TestTrialManager_EndOfTrialPeriod(t *testing.T) {
	start := dates.New(2025, time.January, 31)

	tests := []struct {
		name   string
		values map[params.Key]string
		data   func(*domain.SubscriptionData)
		want   *time.Time
	}{
		{"four weeks by default", nil, nil, dates.Ptr(dates.New(2025, time.February, 28))},
		{"one month clamps to month end", map[params.Key]string{params.TrialPeriodUnit: "months", params.TrialPeriodDuration: "1"}, nil, dates.Ptr(dates.New(2025, time.February, 28))},
		{"override", nil, func(d *domain.SubscriptionData) { d.TrialEndDateOverride = dates.Ptr(dates.New(2025, time.March, 2)) }, dates.Ptr(dates.New(2025, time.March, 2))},
		{"disabled on the subscription", nil, func(d *domain.SubscriptionData) { d.TrialDisabled = true }, nil},
		{"disabled for the organisation", map[params.Key]string{params.TrialPeriodEnabled: "false"}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for k, v := range tt.values {
				f.set(k, v)
			}
			d := trialSubscription(start).Data()
			if tt.data != nil {
				tt.data(&d)
			}
			got, err := f.services().Trial.EndOfTrialPeriod(f.ctx, domain.ReconstructSubscription(d))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrialManager_IsSubscriptionInTrial(t *testing.T) {
	f := newFixture(t)
	m := f.services().Trial
	sub := trialSubscription(dates.New(2025, time.March, 3))

	inTrial, err := m.IsSubscriptionInTrial(f.ctx, sub, dates.New(2025, time.March, 31))
	require.NoError(t, err)
	assert.True(t, inTrial, "last trial day is inclusive")

	inTrial, err = m.IsSubscriptionInTrial(f.ctx, sub, dates.New(2025, time.April, 1))
	require.NoError(t, err)
	assert.False(t, inTrial)

	state, err := m.TrialState(f.ctx, sub, dates.New(2025, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, domain.TrialInProgress, state)

	state, err = m.TrialState(f.ctx, sub, dates.New(2025, time.April, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.TrialEnded, state)

	require.NoError(t, sub.Cancel(f.clock.Now(), nil))
	inTrial, err = m.IsSubscriptionInTrial(f.ctx, sub, dates.New(2025, time.March, 20))
	require.NoError(t, err)
	assert.False(t, inTrial, "cancelled subscriptions are not in trial")
}

func TestTrialManager_EarliestTrialCancellationDate(t *testing.T) {
	start := dates.New(2025, time.March, 3)

	tests := []struct {
		name   string
		values map[params.Key]string
		want   time.Time
	}{
		{"only at the end of the trial", nil, dates.New(2025, time.March, 31)},
		{
			"change deadline passed, after the next delivery",
			map[params.Key]string{params.TrialPeriodCanBeCancelledBeforeEnd: "true"},
			dates.New(2025, time.March, 12),
		},
		{
			"change deadline not passed, today",
			map[params.Key]string{params.TrialPeriodCanBeCancelledBeforeEnd: "true", params.DeliveryChangeWeekdayLimit: "0"},
			today,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for k, v := range tt.values {
				f.set(k, v)
			}
			f.livesAt("m1", "north", start)
			got, err := f.services().Trial.EarliestTrialCancellationDate(f.ctx, f.cache(), trialSubscription(start))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrialManager_EarliestTrialCancellationDate_NoTrial(t *testing.T) {
	f := newFixture(t).set(params.TrialPeriodEnabled, "false")
	_, err := f.services().Trial.EarliestTrialCancellationDate(f.ctx, f.cache(), trialSubscription(today))
	assert.ErrorIs(t, err, domain.ErrNotInTrial)
}
