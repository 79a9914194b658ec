package domain

import "github.com/shopspring/decimal"

// Capacity is a possibly unconfigured capacity value. A missing capacity setting means
// "no constraint", so the zero value is Unlimited.
type Capacity struct {
	limited bool
	value   decimal.Decimal
}

// Unlimited returns a capacity without a ceiling.
func Unlimited() Capacity { return Capacity{} }

// Limited returns a capacity with the given value (which may be negative when overbooked).
func Limited(v decimal.Decimal) Capacity { return Capacity{limited: true, value: v} }

// LimitedInt is Limited for integer quantities.
func LimitedInt(v int) Capacity { return Limited(decimal.NewFromInt(int64(v))) }

// IsUnlimited reports whether no ceiling is configured.
func (c Capacity) IsUnlimited() bool { return !c.limited }

// Value returns the configured value. It is zero for unlimited capacities.
func (c Capacity) Value() decimal.Decimal { return c.value }

// Sub subtracts used capacity. Unlimited stays unlimited.
func (c Capacity) Sub(used decimal.Decimal) Capacity {
	if !c.limited {
		return c
	}
	return Limited(c.value.Sub(used))
}

// Min returns the smaller of two capacities; unlimited loses against any limit.
func (c Capacity) Min(other Capacity) Capacity {
	switch {
	case !c.limited:
		return other
	case !other.limited:
		return c
	case other.value.LessThan(c.value):
		return other
	default:
		return c
	}
}

// Covers reports whether at least needed units are available.
func (c Capacity) Covers(needed decimal.Decimal) bool {
	return !c.limited || c.value.GreaterThanOrEqual(needed)
}

// String renders "unlimited" or the value.
func (c Capacity) String() string {
	if !c.limited {
		return "unlimited"
	}
	return c.value.String()
}
