package domain

import (
	"time"

	"github.com/iho/billcycle/internal/calendar"
)

// Cycle is a billing cycle. Start and End are local midnights; End is the
// closing date itself and belongs to the cycle.
type Cycle struct {
	Start time.Time
	End   time.Time
}

// ResolveCycle returns the cycle containing ref for a card closing on
// closingDay. Short months clamp the closing day.
func ResolveCycle(ref time.Time, closingDay int) Cycle {
	ref = calendar.StartOfDay(ref)
	loc := ref.Location()
	y, m, d := ref.Date()

	thisClose := calendar.Date(y, m, closingDay, loc)
	if d <= thisClose.Day() {
		prevClose := calendar.Date(y, m-1, closingDay, loc)
		return Cycle{Start: calendar.AddDays(prevClose, 1), End: thisClose}
	}

	nextClose := calendar.Date(y, m+1, closingDay, loc)
	return Cycle{Start: calendar.AddDays(thisClose, 1), End: nextClose}
}

// DueDate returns the payment due date for a cycle ending at cycleEnd: the
// clamped due day of the following month, pushed to Monday when it falls on a
// weekend and ignoreWeekends is set.
func DueDate(cycleEnd time.Time, dueDay int, ignoreWeekends bool) time.Time {
	y, m, _ := cycleEnd.Date()
	due := calendar.Date(y, m+1, dueDay, cycleEnd.Location())
	return calendar.AdjustForWeekend(due, ignoreWeekends)
}

// Contains reports whether t falls on a day of the cycle.
func (c Cycle) Contains(t time.Time) bool {
	day := calendar.StartOfDay(t.In(c.Start.Location()))
	return !day.Before(c.Start) && !day.After(c.End)
}

// Bounds returns the half-open instant range [Start, End+1 day) covering the
// cycle, suitable for range queries.
func (c Cycle) Bounds() (from, to time.Time) {
	return c.Start, calendar.AddDays(c.End, 1)
}

// Previous returns the cycle immediately before c.
func (c Cycle) Previous(closingDay int) Cycle {
	return ResolveCycle(calendar.AddDays(c.Start, -1), closingDay)
}

// ReferenceMonth labels the statement by the month in which the cycle closes.
func (c Cycle) ReferenceMonth() string {
	return calendar.MonthKey(c.End)
}
