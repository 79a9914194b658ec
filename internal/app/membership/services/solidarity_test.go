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

// solidarityFixture funds a pool of 10.00 per month through m1, who pays 10.00 above
// standard. m3 already pays 5 % (2.50) below standard.
func solidarityFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	d := f.subscribe("sub-1", "m1", "s", 1)
	d.SolidarityPriceAbsolute = moneyPtr("10.00")
	f.save(d)
	d = f.subscribe("sub-3", "m3", "s", 1)
	d.SolidarityPricePercentage = decimalPtr("-5")
	f.save(d)
	f.save(domain.SubscriptionData{
		ID: "ended", MemberID: "m4", ProductID: "s", Quantity: 1, PeriodID: "2024",
		StartDate: dates.New(2024, time.January, 1), EndDate: dates.Ptr(dates.New(2024, time.December, 31)),
		SolidarityPriceAbsolute: moneyPtr("100.00"),
	})
	return f
}

func TestSolidarityValidator_SolidarityExcess(t *testing.T) {
	f := solidarityFixture(t)
	v := f.services().Solidarity
	rc := f.cache()

	excess, err := v.SolidarityExcess(f.ctx, rc, today, "")
	require.NoError(t, err)
	assert.Equal(t, "10.00", excess.String(), "only above-standard contributions fund the pool")

	excess, err = v.SolidarityExcess(f.ctx, rc, today, "m1")
	require.NoError(t, err)
	assert.Equal(t, "0.00", excess.String())

	excess, err = v.SolidarityExcess(f.ctx, rc, today, "m3")
	require.NoError(t, err)
	assert.Equal(t, "10.00", excess.String())
}

func TestSolidarityValidator_IsSolidarityRequestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		order    *domain.Order
		request  domain.SolidarityRequest
		memberID string
		want     bool
	}{
		{"standard price", "", order(line("s", 1)), domain.SolidarityRequest{}, "", true},
		{"above standard", "", order(line("s", 1)), domain.SolidarityRequest{Absolute: moneyPtr("5.00")}, "", true},
		{"whole pool", "", order(line("s", 1)), domain.SolidarityRequest{Absolute: moneyPtr("-10.00")}, "", true},
		{"one cent above the pool", "", order(line("s", 1)), domain.SolidarityRequest{Absolute: moneyPtr("-10.01")}, "", false},
		{"whole pool while another member draws from it", "", order(line("s", 1)), domain.SolidarityRequest{Absolute: moneyPtr("-10.00")}, "m4", true},
		{"percentage within the pool", "", order(line("m", 1)), domain.SolidarityRequest{Percentage: decimalPtr("-12.5")}, "", true},
		{"percentage above the pool", "", order(line("m", 1)), domain.SolidarityRequest{Percentage: decimalPtr("-13")}, "", false},
		{"own contribution does not fund the request", "", order(line("s", 1)), domain.SolidarityRequest{Absolute: moneyPtr("-1.00")}, "m1", false},
		{"only positive", "only_positive", order(line("s", 1)), domain.SolidarityRequest{Absolute: moneyPtr("-0.01")}, "", false},
		{"only positive above standard", "only_positive", order(line("s", 1)), domain.SolidarityRequest{Percentage: decimalPtr("5")}, "", true},
		{"always allowed", "negative_always_allowed", order(line("s", 1)), domain.SolidarityRequest{Absolute: moneyPtr("-50.00")}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := solidarityFixture(t)
			if tt.mode != "" {
				f.set(params.SolidarityMode, tt.mode)
			}
			got, err := f.services().Solidarity.IsSolidarityRequestAllowed(f.ctx, f.cache(), tt.order, tt.request, tt.memberID, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSolidarityValidator_AcceptsUnit(t *testing.T) {
	tests := []struct {
		name    string
		unit    string
		request domain.SolidarityRequest
		want    bool
	}{
		{"no adjustment", "absolute", domain.SolidarityRequest{}, true},
		{"percent", "percent", domain.SolidarityRequest{Percentage: decimalPtr("10")}, true},
		{"absolute under percent", "percent", domain.SolidarityRequest{Absolute: moneyPtr("10.00")}, false},
		{"absolute", "absolute", domain.SolidarityRequest{Absolute: moneyPtr("10.00")}, true},
		{"percent under absolute", "absolute", domain.SolidarityRequest{Percentage: decimalPtr("10")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t).set(params.SolidarityUnit, tt.unit)
			got, err := f.services().Solidarity.AcceptsUnit(f.ctx, tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthlyPrice(t *testing.T) {
	f := newFixture(t)
	got, err := MonthlyPrice(f.ctx, f.cache(), order(line("s", 2), line("m", 1)), today)
	require.NoError(t, err)
	assert.Equal(t, "180.00", got.String())
}
