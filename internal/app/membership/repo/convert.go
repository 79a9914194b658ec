package repo

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
)

func toCivil(t time.Time) civil.Date {
	return civil.DateOf(t)
}

func fromCivil(d civil.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func toNullDate(t *time.Time) spanner.NullDate {
	if t == nil {
		return spanner.NullDate{}
	}
	return spanner.NullDate{Date: toCivil(*t), Valid: true}
}

func fromNullDate(d spanner.NullDate) *time.Time {
	if !d.Valid {
		return nil
	}
	t := fromCivil(d.Date)
	return &t
}

func toNullTime(t *time.Time) spanner.NullTime {
	if t == nil {
		return spanner.NullTime{}
	}
	return spanner.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t spanner.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func fromNullInt(n spanner.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func toNullInt(n *int) spanner.NullInt64 {
	if n == nil {
		return spanner.NullInt64{}
	}
	return spanner.NullInt64{Int64: int64(*n), Valid: true}
}

// fromRat converts a NUMERIC value; Spanner NUMERIC has a fixed scale, so the
// conversion is exact.
func fromRat(r *big.Rat) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(r.FloatString(spanner.NumericScaleDigits))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric %s: %w", r.String(), err)
	}
	return d, nil
}

func toRat(d decimal.Decimal) *big.Rat {
	return d.Rat()
}

func fromNullNumeric(n spanner.NullNumeric) (*decimal.Decimal, error) {
	if !n.Valid {
		return nil, nil
	}
	d, err := fromRat(&n.Numeric)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toNullNumeric(d *decimal.Decimal) spanner.NullNumeric {
	if d == nil {
		return spanner.NullNumeric{}
	}
	return spanner.NullNumeric{Numeric: *toRat(*d), Valid: true}
}

func moneyToNullNumeric(m *domain.Money) spanner.NullNumeric {
	if m == nil {
		return spanner.NullNumeric{}
	}
	d := m.Decimal()
	return toNullNumeric(&d)
}

func moneyFromNullNumeric(n spanner.NullNumeric) (*domain.Money, error) {
	d, err := fromNullNumeric(n)
	if err != nil || d == nil {
		return nil, err
	}
	m := domain.MoneyFromDecimal(*d)
	return &m, nil
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}
