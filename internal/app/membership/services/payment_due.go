package services

import (
	"context"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// PaymentDueDateCalculator computes when coop share payments fall due.
type PaymentDueDateCalculator struct {
	params params.Provider
}

// NewPaymentDueDateCalculator creates a new PaymentDueDateCalculator.
func NewPaymentDueDateCalculator(p params.Provider) *PaymentDueDateCalculator {
	return &PaymentDueDateCalculator{params: p}
}

// CoopSharePaymentDueDate returns the configured due day in the month of sharesValidAt,
// or in the following month once that day has passed.
func (c *PaymentDueDateCalculator) CoopSharePaymentDueDate(ctx context.Context, sharesValidAt time.Time) (time.Time, error) {
	dueDay, err := c.params.Int(ctx, params.PaymentDueDay)
	if err != nil {
		return time.Time{}, err
	}
	month := dates.New(sharesValidAt.Year(), sharesValidAt.Month(), 1)
	if sharesValidAt.Day() > dueDay {
		month = dates.AddMonths(month, 1)
	}
	return dates.New(month.Year(), month.Month(), dueDay), nil
}
