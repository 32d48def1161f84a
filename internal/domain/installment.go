package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iho/billcycle/internal/calendar"
)

// InstallmentStatus is the state of one scheduled installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPosted  InstallmentStatus = "posted"
)

// InstallmentOccurrence is one installment of a purchase.
type InstallmentOccurrence struct {
	Sequence     int
	PurchaseDate time.Time
	DueDate      time.Time
	Amount       int64
	Status       InstallmentStatus
}

// ScheduleParams describes an installment purchase on a card.
type ScheduleParams struct {
	FirstPurchaseDate time.Time
	Count             int
	PurchaseDay       int
	ClosingDay        int
	DueDay            int
	IgnoreWeekends    bool
	Amount            int64
}

// InstallmentSchedule is the full plan of an installment purchase merged
// with what has already been realized.
type InstallmentSchedule struct {
	BlueprintID    string
	CardID         string
	Description    string
	Amount         int64
	Count          int
	PurchaseDay    int
	Occurrences    []InstallmentOccurrence
	RealizedCount  int
	RemainingCount int
	RemainingTotal int64
	NextDueDate    *time.Time
}

// BuildSchedule lays out count installments: purchase i lands on purchaseDay
// of the i-th month after the first purchase (clamped), and is due on the due
// date of the cycle containing it. Every occurrence starts out pending.
func BuildSchedule(p ScheduleParams) []InstallmentOccurrence {
	if p.Count <= 0 {
		return nil
	}

	first := calendar.StartOfDay(p.FirstPurchaseDate)
	out := make([]InstallmentOccurrence, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		purchase := calendar.AddMonthsClamped(first, i, p.PurchaseDay)
		out = append(out, InstallmentOccurrence{
			Sequence:     i + 1,
			PurchaseDate: purchase,
			DueDate:      InstallmentDueDate(purchase, p.ClosingDay, p.DueDay, p.IgnoreWeekends),
			Amount:       p.Amount,
			Status:       InstallmentPending,
		})
	}

	return out
}

// InstallmentDueDate returns the due date of the cycle a purchase falls in.
func InstallmentDueDate(purchase time.Time, closingDay, dueDay int, ignoreWeekends bool) time.Time {
	return DueDate(ResolveCycle(purchase, closingDay).End, dueDay, ignoreWeekends)
}

// MergeWithRealized marks an occurrence posted iff its due date key is in
// realized, and fills in the counters.
func MergeWithRealized(s InstallmentSchedule, realized DateKeySet) InstallmentSchedule {
	occ := make([]InstallmentOccurrence, len(s.Occurrences))
	copy(occ, s.Occurrences)

	s.RealizedCount = 0
	s.RemainingCount = 0
	s.RemainingTotal = 0
	s.NextDueDate = nil

	for i := range occ {
		if _, ok := realized[calendar.DateKey(occ[i].DueDate)]; ok {
			occ[i].Status = InstallmentPosted
			s.RealizedCount++
			continue
		}

		occ[i].Status = InstallmentPending
		s.RemainingCount++
		s.RemainingTotal += occ[i].Amount
		if s.NextDueDate == nil {
			due := occ[i].DueDate
			s.NextDueDate = &due
		}
	}

	s.Occurrences = occ
	return s
}

// InstallmentRule encodes a monthly rule of count occurrences on day. Days
// past 28 select the last existing day in {28..day} so short months clamp
// instead of being skipped.
func InstallmentRule(day, count int) string {
	if day <= 28 {
		return fmt.Sprintf("FREQ=MONTHLY;COUNT=%d;BYMONTHDAY=%d", count, day)
	}

	days := make([]string, 0, day-27)
	for d := 28; d <= day; d++ {
		days = append(days, strconv.Itoa(d))
	}

	return fmt.Sprintf("FREQ=MONTHLY;COUNT=%d;BYMONTHDAY=%s;BYSETPOS=-1", count, strings.Join(days, ","))
}

// ParseInstallmentRule recovers the purchase day and count from a rule built
// by InstallmentRule.
func ParseInstallmentRule(rule string) (day, count int, err error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")

	for _, part := range strings.Split(rule, ";") {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}

		switch strings.ToUpper(name) {
		case "COUNT":
			if count, err = strconv.Atoi(value); err != nil {
				return 0, 0, fmt.Errorf("%w: COUNT=%s", ErrRuleParse, value)
			}
		case "BYMONTHDAY":
			for _, d := range strings.Split(value, ",") {
				n, err := strconv.Atoi(d)
				if err != nil {
					return 0, 0, fmt.Errorf("%w: BYMONTHDAY=%s", ErrRuleParse, value)
				}
				day = max(day, n)
			}
		}
	}

	if day < 1 || day > 31 || count < 1 {
		return 0, 0, fmt.Errorf("%w: not an installment rule: %q", ErrRuleParse, rule)
	}

	return day, count, nil
}
