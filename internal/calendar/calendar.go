// Package calendar provides month-length aware date arithmetic used by the
// billing engine.
//
// Dates are represented as time.Time values at local midnight in the
// location carried by the value. DateKey is the canonical comparison key:
// realized and projected occurrences are reconciled by key, never by raw
// timestamp equality.
package calendar

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout of keys produced by DateKey.
const DateKeyLayout = "2006-01-02"

// DaysInMonth returns the number of days in the given month, leap-year aware.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay projects a fixed day-of-month onto a month that may be shorter.
func ClampDay(day, year int, month time.Month) int {
	if day < 1 {
		return 1
	}

	if last := DaysInMonth(year, month); day > last {
		return last
	}

	return day
}

// Date returns local midnight of the given calendar day in loc, clamping the
// day to the month length.
func Date(year int, month time.Month, day int, loc *time.Location) time.Time {
	// Normalize month overflow (e.g. month 13) before clamping.
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	return time.Date(first.Year(), first.Month(), ClampDay(day, first.Year(), first.Month()), 0, 0, 0, 0, loc)
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last second of t's local day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// AddDays shifts a calendar date by n days, staying at local midnight across
// DST transitions.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// AddMonthsClamped moves t by n months keeping the given day-of-month,
// clamped to the target month length.
func AddMonthsClamped(t time.Time, n, day int) time.Time {
	return Date(t.Year(), t.Month()+time.Month(n), day, t.Location())
}

// AdjustForWeekend moves Saturday to Monday (+2) and Sunday to Monday (+1)
// when enabled. Any other day is returned unchanged.
func AdjustForWeekend(t time.Time, enabled bool) time.Time {
	if !enabled {
		return t
	}

	switch t.Weekday() {
	case time.Saturday:
		return AddDays(t, 2)
	case time.Sunday:
		return AddDays(t, 1)
	default:
		return t
	}
}

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// DateKeyIn formats t as YYYY-MM-DD after converting it to loc.
func DateKeyIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as local midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}

	return t, nil
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
