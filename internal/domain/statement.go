package domain

import "time"

// BillingCycleSummary is a card statement for one billing cycle. Totals are
// in minor units: realized is what has been posted, projected adds the
// blueprint occurrences of the cycle not yet posted.
type BillingCycleSummary struct {
	CardID                    string
	CardName                  string
	CycleStart                time.Time
	CycleEnd                  time.Time
	DueDate                   time.Time
	ReferenceMonth            string
	MaxLimit                  int64
	LimitUsed                 int64
	AvailableCredit           int64
	RealizedTotal             int64
	TransactionsCount         int
	ProjectedRecurringTotal   int64
	ProjectedInstallmentTotal int64
	ProjectedTotal            int64
}

// NewBillingCycleSummary fills the card and cycle derived fields.
func NewBillingCycleSummary(card *Card, cycle Cycle) *BillingCycleSummary {
	return &BillingCycleSummary{
		CardID:          card.ID,
		CardName:        card.Name,
		CycleStart:      cycle.Start,
		CycleEnd:        cycle.End,
		DueDate:         DueDate(cycle.End, card.DueDay, card.IgnoreWeekends),
		ReferenceMonth:  cycle.ReferenceMonth(),
		MaxLimit:        card.MaxLimit,
		LimitUsed:       card.LimitUsed,
		AvailableCredit: card.Available(),
	}
}

// Total recomputes ProjectedTotal from its parts.
func (s *BillingCycleSummary) Total() int64 {
	s.ProjectedTotal = s.RealizedTotal + s.ProjectedRecurringTotal + s.ProjectedInstallmentTotal
	return s.ProjectedTotal
}
