package contract_dates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/app/membership/memstore"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/services"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func TestContractDates(t *testing.T) {
	today := dates.New(2025, time.March, 10)
	store, err := memstore.NewDemo(today)
	require.NoError(t, err)

	tests := []struct {
		name      string
		values    map[params.Key]string
		wantStart time.Time
		wantDue   time.Time
	}{
		{
			// the change deadline of this week was Sunday
			name:      "defaults",
			wantStart: dates.New(2025, time.March, 17),
			wantDue:   dates.New(2025, time.April, 15),
		},
		{
			name:      "later due day",
			values:    map[params.Key]string{params.PaymentDueDay: "20"},
			wantStart: dates.New(2025, time.March, 17),
			wantDue:   dates.New(2025, time.March, 20),
		},
		{
			name:      "buffer pushes the start",
			values:    map[params.Key]string{params.ContractStartBufferDays: "7"},
			wantStart: dates.New(2025, time.March, 24),
			wantDue:   dates.New(2025, time.April, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery(store, services.NewSet(params.NewStatic(tt.values), clock.NewMockClock(today)))

			got, err := q.Execute(context.Background(), &Request{ReferenceDate: today})
			require.NoError(t, err)

			assert.Equal(t, tt.wantStart, got.ContractStartDate)
			assert.Equal(t, tt.wantDue, got.CoopSharePaymentDueDate)
			assert.Equal(t, "season-2025", got.GrowingPeriodID)
			require.NotNil(t, got.GrowingPeriodEnd)
			assert.Equal(t, dates.New(2025, time.December, 31), *got.GrowingPeriodEnd)
		})
	}
}
