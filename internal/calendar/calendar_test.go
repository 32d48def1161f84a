package calendar

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestClampDay(t *testing.T) {
	tests := []struct {
		name  string
		day   int
		year  int
		month time.Month
		want  int
	}{
		{"fits", 15, 2024, time.February, 15},
		{"leap february", 31, 2024, time.February, 29},
		{"common february", 30, 2023, time.February, 28},
		{"thirty day month", 31, 2024, time.June, 30},
		{"below range", 0, 2024, time.June, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampDay(tt.day, tt.year, tt.month); got != tt.want {
				t.Errorf("ClampDay(%d) = %d, want %d", tt.day, got, tt.want)
			}
		})
	}
}

func TestAdjustForWeekend(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		enabled bool
		want    string
	}{
		{"saturday moves to monday", Date(2024, time.March, 9, time.UTC), true, "2024-03-11"},
		{"sunday moves to monday", Date(2024, time.March, 10, time.UTC), true, "2024-03-11"},
		{"weekday unchanged", Date(2024, time.March, 12, time.UTC), true, "2024-03-12"},
		{"disabled keeps saturday", Date(2024, time.March, 9, time.UTC), false, "2024-03-09"},
		{"saturday across month end", Date(2024, time.August, 31, time.UTC), true, "2024-09-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustForWeekend(tt.date, tt.enabled)
			if DateKey(got) != tt.want {
				t.Errorf("AdjustForWeekend(%s) = %s, want %s", DateKey(tt.date), DateKey(got), tt.want)
			}
			if tt.enabled && (got.Weekday() == time.Saturday || got.Weekday() == time.Sunday) {
				t.Errorf("adjusted date %s still on a weekend", DateKey(got))
			}
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	start := Date(2024, time.January, 31, time.UTC)

	want := []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30", "2025-01-31"}
	months := []int{0, 1, 2, 3, 12}

	for i, n := range months {
		if got := DateKey(AddMonthsClamped(start, n, 31)); got != want[i] {
			t.Errorf("AddMonthsClamped(+%d) = %s, want %s", n, got, want[i])
		}
	}
}

func TestDateKeyIn(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	instant := time.Date(2025, time.November, 24, 2, 0, 0, 0, time.UTC)

	if got := DateKeyIn(instant, loc); got != "2025-11-23" {
		t.Fatalf("expected local key 2025-11-23, got %s", got)
	}

	if got := DateKeyIn(instant, time.UTC); got != "2025-11-24" {
		t.Fatalf("expected UTC key 2025-11-24, got %s", got)
	}
}

func TestParseDateKey(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := ParseDateKey("2024-02-29", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != loc || got.Hour() != 0 || DateKey(got) != "2024-02-29" {
		t.Fatalf("unexpected parse result: %s", got)
	}

	if _, err := ParseDateKey("2023-02-29", loc); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2025, time.November, 23, 23, 0, 0, 0, time.UTC)
	got := EndOfDay(in)

	if got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 || DateKey(got) != "2025-11-23" {
		t.Fatalf("unexpected end of day: %s", got)
	}
}
