package domain

import "time"

// Posting is a concrete ledger entry, either user-entered or generated from a
// Blueprint. At most one posting exists per blueprint per occurrence.
type Posting struct {
	ID          string
	Amount      int64
	Description string
	CategoryID  string
	Date        time.Time
	RecurringID *string
	CardID      *string
	Flow        Flow
	AccountID   *string
	// LimitApplied is the signed change this posting made to its card's
	// LimitUsed. Deleting the posting reverses exactly this amount.
	LimitApplied int64
}

// NewPostingFromBlueprint materializes one occurrence of b.
func NewPostingFromBlueprint(id string, b *Blueprint, at time.Time) *Posting {
	recurringID := b.ID

	return &Posting{
		ID:          id,
		Amount:      b.Amount,
		Description: b.Description,
		CategoryID:  b.CategoryID,
		Date:        at,
		RecurringID: &recurringID,
		CardID:      b.CardID,
		Flow:        b.Flow,
		AccountID:   b.AccountID,
	}
}

// Magnitude returns the absolute posting amount.
func (p *Posting) Magnitude() int64 {
	return abs(p.Amount)
}

// IsCardLinked reports whether the posting consumes card limit.
func (p *Posting) IsCardLinked() bool {
	return p.CardID != nil && *p.CardID != ""
}

// StatementAmount is the posting's contribution to a card statement:
// outflows count as positive magnitudes, inflows reduce the total.
func (p *Posting) StatementAmount() int64 {
	if p.Flow == FlowOutflow {
		return p.Magnitude()
	}
	return -p.Magnitude()
}

// Validate validates a posting before insert.
func (p *Posting) Validate() error {
	if !p.Flow.IsValid() {
		return ErrInvalidFlow
	}

	if p.Amount == 0 {
		return ErrInvalidAmount
	}

	if (p.Flow == FlowOutflow) != (p.Amount < 0) {
		return ErrAmountFlowMismatch
	}

	if err := ValidateAmount(p.Magnitude()); err != nil {
		return err
	}

	return ValidateDescription(p.Description)
}
