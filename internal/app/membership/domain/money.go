package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a currency amount (EUR) with exact decimal arithmetic.
// The zero value is 0.00 and ready to use.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from an amount in cents: NewMoney(2499) is 24.99.
func NewMoney(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// MoneyFromDecimal wraps a decimal amount.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// ParseMoney parses a decimal string such as "24.99".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustParseMoney is ParseMoney for literals; it panics on malformed input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying amount.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// Add adds two Money values.
func (m Money) Add(other Money) Money { return Money{amount: m.amount.Add(other.amount)} }

// Subtract subtracts other from m.
func (m Money) Subtract(other Money) Money { return Money{amount: m.amount.Sub(other.amount)} }

// MultiplyBy multiplies by a decimal factor (quantities, percentages).
func (m Money) MultiplyBy(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// MultiplyByInt multiplies by an integer quantity.
func (m Money) MultiplyByInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// Negate flips the sign.
func (m Money) Negate() Money { return Money{amount: m.amount.Neg()} }

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsNegative returns true if the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsPositive returns true if the amount is above zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// LessThan returns true if m < other.
func (m Money) LessThan(other Money) bool { return m.amount.LessThan(other.amount) }

// GreaterThan returns true if m > other.
func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

// Equals compares amounts regardless of scale (1.5 == 1.50).
func (m Money) Equals(other Money) bool { return m.amount.Equal(other.amount) }

// Float64 returns an approximate float64 (display only).
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders the amount with two decimal places.
func (m Money) String() string { return m.amount.StringFixed(2) }

// SumMoney adds up amounts.
func SumMoney(amounts ...Money) Money {
	total := Money{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
