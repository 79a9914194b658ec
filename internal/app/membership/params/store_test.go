package params

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

type countingSource struct {
	values map[string]string
	loads  int
	err    error
}

func (s *countingSource) LoadParameters(context.Context) (map[string]string, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.values, nil
}

func TestStore_Defaults(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(nil)

	enabled, err := s.Bool(ctx, TrialPeriodEnabled)
	require.NoError(t, err)
	assert.True(t, enabled)

	due, err := s.Int(ctx, PaymentDueDay)
	require.NoError(t, err)
	assert.Equal(t, 15, due)

	start, err := s.Date(ctx, DeliveryFourWeekRhythmStart)
	require.NoError(t, err)
	assert.Equal(t, dates.New(2025, time.January, 6), start)

	mode, err := GetSolidarityMode(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, domain.SolidarityNegativeAllowedIfEnoughPositive, mode)

	unit, err := GetTrialUnit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, domain.TrialUnitWeeks, unit)
}

func TestStore_StoredValuesWin(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(map[Key]string{PaymentDueDay: "12", PickingMode: "basket"})

	due, err := s.Int(ctx, PaymentDueDay)
	require.NoError(t, err)
	assert.Equal(t, 12, due)

	mode, err := GetPickingMode(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, domain.PickingModeBasket, mode)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		values  map[Key]string
		read    func(s *Store) error
		wantErr error
	}{
		{
			name:    "unknown key",
			read:    func(s *Store) error { _, err := s.Bool(ctx, Key("nope")); return err },
			wantErr: domain.ErrUnknownParameter,
		},
		{
			name:    "wrong kind",
			read:    func(s *Store) error { _, err := s.Int(ctx, TrialPeriodEnabled); return err },
			wantErr: domain.ErrInvalidParameterValue,
		},
		{
			name:    "unparsable int",
			values:  map[Key]string{TrialPeriodDuration: "four"},
			read:    func(s *Store) error { _, err := s.Int(ctx, TrialPeriodDuration); return err },
			wantErr: domain.ErrInvalidParameterValue,
		},
		{
			name:    "out of range",
			values:  map[Key]string{DeliveryDay: "7"},
			read:    func(s *Store) error { _, err := s.Int(ctx, DeliveryDay); return err },
			wantErr: domain.ErrInvalidParameterValue,
		},
		{
			name:    "unknown enum tag",
			values:  map[Key]string{SolidarityMode: "sometimes"},
			read:    func(s *Store) error { _, err := GetSolidarityMode(ctx, s); return err },
			wantErr: domain.ErrInvalidParameterValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewStatic(tt.values))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsConfigurationError(err))
		})
	}
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC))
	src := &countingSource{values: map[string]string{"payment.due_day": "10", "legacy.key": "x"}}
	s := NewStore(src, time.Minute, clk)

	for i := 0; i < 3; i++ {
		v, err := s.Int(ctx, PaymentDueDay)
		require.NoError(t, err)
		assert.Equal(t, 10, v)
	}
	assert.Equal(t, 1, src.loads)

	clk.Advance(2 * time.Minute)
	src.values = map[string]string{"payment.due_day": "20"}
	v, err := s.Int(ctx, PaymentDueDay)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	assert.Equal(t, 2, src.loads)

	s.Invalidate()
	_, err = s.Int(ctx, PaymentDueDay)
	require.NoError(t, err)
	assert.Equal(t, 3, src.loads)
}

func TestStore_SourceFailure(t *testing.T) {
	boom := errors.New("spanner unavailable")
	s := NewStore(&countingSource{err: boom}, time.Minute, clock.NewRealClock())
	_, err := s.Bool(context.Background(), AutomaticSubscriptionRenewal)
	assert.ErrorIs(t, err, boom)
}

func TestRegistry(t *testing.T) {
	for _, k := range Keys() {
		def, err := k.Default()
		require.NoError(t, err)
		assert.NoError(t, k.Validate(def), "default of %s must be valid", k)
		assert.NotEmpty(t, k.Description())
	}

	_, ok := Lookup("delivery.day")
	assert.True(t, ok)
	_, ok = Lookup("delivery.night")
	assert.False(t, ok)
}
