package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/billcycle/internal/calendar"
)

func keys(occ []InstallmentOccurrence, f func(InstallmentOccurrence) time.Time) []string {
	out := make([]string, 0, len(occ))
	for _, o := range occ {
		out = append(out, calendar.DateKey(f(o)))
	}
	return out
}

func TestBuildSchedule(t *testing.T) {
	t.Parallel()

	occ := BuildSchedule(ScheduleParams{
		FirstPurchaseDate: day(2024, 3, 1),
		Count:             4,
		PurchaseDay:       1,
		ClosingDay:        20,
		DueDay:            10,
		IgnoreWeekends:    true,
		Amount:            25000,
	})

	require.Len(t, occ, 4)
	assert.Equal(t, []string{"2024-03-01", "2024-04-01", "2024-05-01", "2024-06-01"},
		keys(occ, func(o InstallmentOccurrence) time.Time { return o.PurchaseDate }))
	assert.Equal(t, []string{"2024-04-10", "2024-05-10", "2024-06-10", "2024-07-10"},
		keys(occ, func(o InstallmentOccurrence) time.Time { return o.DueDate }))

	for i, o := range occ {
		assert.Equal(t, i+1, o.Sequence)
		assert.Equal(t, int64(25000), o.Amount)
		assert.Equal(t, InstallmentPending, o.Status)
		assert.NotEqual(t, time.Saturday, o.DueDate.Weekday())
		assert.NotEqual(t, time.Sunday, o.DueDate.Weekday())
	}
}

func TestBuildScheduleClampsPurchaseDay(t *testing.T) {
	t.Parallel()

	occ := BuildSchedule(ScheduleParams{
		FirstPurchaseDate: day(2024, 1, 31),
		Count:             3,
		PurchaseDay:       31,
		ClosingDay:        5,
		DueDay:            15,
		Amount:            1000,
	})

	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31"},
		keys(occ, func(o InstallmentOccurrence) time.Time { return o.PurchaseDate }))
	// Purchases after the 5th close in the following month.
	assert.Equal(t, []string{"2024-03-15", "2024-04-15", "2024-05-15"},
		keys(occ, func(o InstallmentOccurrence) time.Time { return o.DueDate }))
}

func TestBuildScheduleEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, BuildSchedule(ScheduleParams{FirstPurchaseDate: day(2024, 1, 1), Count: 0}))
}

func TestMergeWithRealized(t *testing.T) {
	t.Parallel()

	s := InstallmentSchedule{
		Amount: 25000,
		Count:  4,
		Occurrences: BuildSchedule(ScheduleParams{
			FirstPurchaseDate: day(2024, 3, 1),
			Count:             4,
			PurchaseDay:       1,
			ClosingDay:        20,
			DueDay:            10,
			IgnoreWeekends:    true,
			Amount:            25000,
		}),
	}

	merged := MergeWithRealized(s, NewDateKeySet("2024-04-10", "2024-05-10"))

	assert.Equal(t, 2, merged.RealizedCount)
	assert.Equal(t, 2, merged.RemainingCount)
	assert.Equal(t, int64(50000), merged.RemainingTotal)
	require.NotNil(t, merged.NextDueDate)
	assert.Equal(t, "2024-06-10", calendar.DateKey(*merged.NextDueDate))
	assert.Equal(t, InstallmentPosted, merged.Occurrences[0].Status)
	assert.Equal(t, InstallmentPosted, merged.Occurrences[1].Status)
	assert.Equal(t, InstallmentPending, merged.Occurrences[2].Status)

	// Input schedule is left untouched.
	assert.Equal(t, InstallmentPending, s.Occurrences[0].Status)

	all := MergeWithRealized(s, NewDateKeySet("2024-04-10", "2024-05-10", "2024-06-10", "2024-07-10"))
	assert.Equal(t, 4, all.RealizedCount)
	assert.Zero(t, all.RemainingCount)
	assert.Nil(t, all.NextDueDate)
}

func TestInstallmentRule(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "FREQ=MONTHLY;COUNT=4;BYMONTHDAY=10", InstallmentRule(10, 4))
	assert.Equal(t, "FREQ=MONTHLY;COUNT=12;BYMONTHDAY=28", InstallmentRule(28, 12))
	assert.Equal(t, "FREQ=MONTHLY;COUNT=3;BYMONTHDAY=28,29,30,31;BYSETPOS=-1", InstallmentRule(31, 3))
}

func TestParseInstallmentRule(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ day, count int }{{1, 4}, {10, 12}, {28, 2}, {30, 6}, {31, 3}} {
		day, count, err := ParseInstallmentRule(InstallmentRule(tc.day, tc.count))
		require.NoError(t, err)
		assert.Equal(t, tc.day, day)
		assert.Equal(t, tc.count, count)
	}

	_, _, err := ParseInstallmentRule("FREQ=WEEKLY;BYDAY=MO")
	assert.ErrorIs(t, err, ErrRuleParse)
}
