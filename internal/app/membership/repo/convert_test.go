package repo

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

func TestFromRat(t *testing.T) {
	d, err := fromRat(big.NewRat(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "0.333333333", d.String())

	d, err = fromRat(big.NewRat(3, 2))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.5").Equal(d))
}

func TestNullableConversions(t *testing.T) {
	assert.False(t, toNullDate(nil).Valid)
	assert.Nil(t, fromNullDate(toNullDate(nil)))
	assert.Nil(t, fromNullInt(toNullInt(nil)))
	assert.False(t, nullString("").Valid)

	day := dates.New(2025, time.February, 28)
	got := fromNullDate(toNullDate(&day))
	require.NotNil(t, got)
	assert.Equal(t, day, *got)

	n := 3
	assert.Equal(t, 3, *fromNullInt(toNullInt(&n)))

	pct, err := fromNullNumeric(toNullNumeric(nil))
	require.NoError(t, err)
	assert.Nil(t, pct)
}

func TestSubscriptionDataRoundTrip(t *testing.T) {
	end := dates.New(2025, time.December, 31)
	cancelled := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	notice := 2
	pct := decimal.RequireFromString("-12.5")
	sub := domain.ReconstructSubscription(domain.SubscriptionData{
		ID:                        "sub-1",
		MemberID:                  "m-1",
		ProductID:                 "harvest-m",
		Quantity:                  2,
		PeriodID:                  "season-2025",
		StartDate:                 dates.New(2025, time.January, 1),
		EndDate:                   &end,
		CancellationTS:            &cancelled,
		NoticePeriodDuration:      &notice,
		SolidarityPricePercentage: &pct,
		CreatedAt:                 cancelled,
		Version:                   4,
	})

	back, err := dataToSubscription(subscriptionToData(sub))
	require.NoError(t, err)

	want := sub.Data()
	have := back.Data()
	require.NotNil(t, have.SolidarityPricePercentage)
	assert.True(t, want.SolidarityPricePercentage.Equal(*have.SolidarityPricePercentage))
	want.SolidarityPricePercentage, have.SolidarityPricePercentage = nil, nil
	assert.Equal(t, want, have)
}

func TestOpenEndedSubscriptionWithAbsoluteSolidarity(t *testing.T) {
	amount := domain.MustParseMoney("7.50")
	sub := domain.ReconstructSubscription(domain.SubscriptionData{
		ID:                      "sub-2",
		MemberID:                "m-1",
		ProductID:               "coop-share",
		Quantity:                3,
		StartDate:               dates.New(2025, time.January, 1),
		SolidarityPriceAbsolute: &amount,
	})

	data := subscriptionToData(sub)
	assert.False(t, data.PeriodID.Valid)
	assert.False(t, data.EndDate.Valid)

	back, err := dataToSubscription(data)
	require.NoError(t, err)
	assert.Empty(t, back.PeriodID())
	assert.Nil(t, back.EndDate())
	require.NotNil(t, back.SolidarityAbsolute())
	assert.True(t, amount.Equals(*back.SolidarityAbsolute()))
}
