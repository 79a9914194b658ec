package params

import (
	"context"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
)

// GetTrialUnit reads TrialPeriodUnit.
func GetTrialUnit(ctx context.Context, p Provider) (domain.TrialUnit, error) {
	raw, err := p.String(ctx, TrialPeriodUnit)
	if err != nil {
		return 0, err
	}
	return domain.ParseTrialUnit(raw)
}

// GetPickingMode reads PickingMode.
func GetPickingMode(ctx context.Context, p Provider) (domain.PickingMode, error) {
	raw, err := p.String(ctx, PickingMode)
	if err != nil {
		return 0, err
	}
	return domain.ParsePickingMode(raw)
}

// GetSolidarityMode reads SolidarityMode.
func GetSolidarityMode(ctx context.Context, p Provider) (domain.SolidarityMode, error) {
	raw, err := p.String(ctx, SolidarityMode)
	if err != nil {
		return 0, err
	}
	return domain.ParseSolidarityMode(raw)
}

// GetSolidarityUnit reads SolidarityUnit.
func GetSolidarityUnit(ctx context.Context, p Provider) (domain.SolidarityUnit, error) {
	raw, err := p.String(ctx, SolidarityUnit)
	if err != nil {
		return 0, err
	}
	return domain.ParseSolidarityUnit(raw)
}
