package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
)

func dateKeys(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, calendar.DateKey(t))
	}
	return out
}

func TestExpandMonthly(t *testing.T) {
	e := NewExpander()
	anchor := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	got, err := e.Expand("FREQ=MONTHLY;BYMONTHDAY=15", anchor, anchor, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-15", "2024-02-15", "2024-03-15", "2024-04-15"}, dateKeys(got))
}

func TestExpandInclusiveBounds(t *testing.T) {
	e := NewExpander()
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	inc, err := e.Expand("FREQ=DAILY", anchor, from, to, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03", "2024-01-04", "2024-01-05"}, dateKeys(inc))

	exc, err := e.Expand("FREQ=DAILY", anchor, from, to, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-04"}, dateKeys(exc))
}

func TestExpandReversedRangeIsEmpty(t *testing.T) {
	e := NewExpander()
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := e.Expand("FREQ=DAILY", anchor, anchor.AddDate(0, 1, 0), anchor, true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpandAcceptsRRulePrefixAndTruncates(t *testing.T) {
	e := NewExpander()
	anchor := time.Date(2024, 1, 1, 8, 30, 15, 999_000_000, time.UTC)

	got, err := e.Expand("RRULE:FREQ=WEEKLY;COUNT=2", anchor, anchor.Add(-time.Hour), anchor.AddDate(0, 1, 0), true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Zero(t, got[0].Nanosecond())
	assert.Equal(t, time.Date(2024, 1, 8, 8, 30, 15, 0, time.UTC), got[1])
}

func TestExpandUsesAnchorLocation(t *testing.T) {
	e := NewExpander()
	loc := time.FixedZone("BRT", -3*60*60)
	anchor := time.Date(2025, 11, 24, 2, 0, 0, 0, time.UTC).In(loc)
	to := calendar.EndOfDay(time.Date(2025, 11, 24, 2, 30, 0, 0, time.UTC).In(loc))

	got, err := e.Expand("FREQ=MONTHLY;BYMONTHDAY=23", anchor, anchor, to, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-11-23", calendar.DateKeyIn(got[0], loc))
}

func TestExpandInstallmentRuleClampsShortMonths(t *testing.T) {
	e := NewExpander()
	anchor := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	got, err := e.Expand(domain.InstallmentRule(31, 4), anchor, anchor, anchor.AddDate(1, 0, 0), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"}, dateKeys(got))
}

func TestValidate(t *testing.T) {
	e := NewExpander()

	assert.NoError(t, e.Validate("FREQ=MONTHLY;BYMONTHDAY=10"))

	for _, rule := range []string{"", "FREQ=SOMETIMES", "not a rule"} {
		err := e.Validate(rule)
		if !errors.Is(err, domain.ErrRuleParse) {
			t.Fatalf("Validate(%q): expected ErrRuleParse, got %v", rule, err)
		}
	}
}
