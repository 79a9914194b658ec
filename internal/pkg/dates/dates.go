// Package dates provides calendar-day helpers.
//
// A date is a time.Time at UTC midnight. Weekdays are numbered Monday=0 ... Sunday=6,
// matching how organisation parameters store them.
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire format for dates (query parameters, JSON, parameter values).
const Layout = "2006-01-02"

// New builds a date.
func New(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate returns the calendar date of t (in t's own location) as UTC midnight.
func Truncate(t time.Time) time.Time {
	return New(t.Year(), t.Month(), t.Day())
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Weekday returns the Monday-based weekday of t (Monday=0).
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// MondayOf returns the Monday of the week containing t.
func MondayOf(t time.Time) time.Time {
	d := Truncate(t)
	return d.AddDate(0, 0, -Weekday(d))
}

// NextMonday returns the first Monday strictly after t.
func NextMonday(t time.Time) time.Time {
	return MondayOf(t).AddDate(0, 0, 7)
}

// AddDays adds n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddWeeks adds n weeks.
func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

// AddMonths adds n months, clamping the day to the last day of the target month
// (2025-01-31 + 1 month = 2025-02-28).
func AddMonths(t time.Time, n int) time.Time {
	d := Truncate(t)
	firstOfTarget := New(d.Year(), d.Month(), 1).AddDate(0, n, 0)
	last := DaysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	day := d.Day()
	if day > last {
		day = last
	}
	return New(firstOfTarget.Year(), firstOfTarget.Month(), day)
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return New(year, month+1, 0).Day()
}

// DaysBetween returns to - from in whole days.
func DaysBetween(from, to time.Time) int {
	return int(Truncate(to).Sub(Truncate(from)).Hours() / 24)
}

// IsoWeek returns the ISO 8601 week number of t.
func IsoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of a and b.
func Max(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// Between reports whether from <= t <= to. A nil to means open-ended.
func Between(t, from time.Time, to *time.Time) bool {
	if t.Before(from) {
		return false
	}
	return to == nil || !t.After(*to)
}

// Ptr returns a pointer to a copy of t.
func Ptr(t time.Time) *time.Time {
	return &t
}
