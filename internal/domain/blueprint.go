package domain

import (
	"time"

	"github.com/iho/billcycle/internal/calendar"
)

// Flow is the direction of money for a posting or blueprint.
type Flow string

const (
	FlowInflow  Flow = "inflow"
	FlowOutflow Flow = "outflow"
)

// IsValid checks if the flow is a known value.
func (f Flow) IsValid() bool {
	return f == FlowInflow || f == FlowOutflow
}

// SignedAmount applies the flow sign to a magnitude.
func (f Flow) SignedAmount(magnitude int64) int64 {
	magnitude = abs(magnitude)
	if f == FlowOutflow {
		return -magnitude
	}
	return magnitude
}

// Blueprint is a recurring transaction definition. LastProcessedAt is the
// watermark and is only advanced by the sync job.
type Blueprint struct {
	ID              string
	Amount          int64
	Description     string
	CategoryID      string
	Flow            Flow
	StartAt         time.Time
	Rule            string
	LastProcessedAt *time.Time
	CardID          *string
	IsInstallment   bool
	AccountID       *string
}

// Magnitude returns the absolute amount of one occurrence.
func (b *Blueprint) Magnitude() int64 {
	return abs(b.Amount)
}

// IsCardLinked reports whether postings of this blueprint hit a card.
func (b *Blueprint) IsCardLinked() bool {
	return b.CardID != nil && *b.CardID != ""
}

// Validate validates the blueprint at write time.
func (b *Blueprint) Validate() error {
	if !b.Flow.IsValid() {
		return ErrInvalidFlow
	}

	if b.Amount == 0 {
		return ErrInvalidAmount
	}

	if (b.Flow == FlowOutflow) != (b.Amount < 0) {
		return ErrAmountFlowMismatch
	}

	if err := ValidateAmount(b.Magnitude()); err != nil {
		return err
	}

	if err := ValidateDescription(b.Description); err != nil {
		return err
	}

	if b.Rule == "" {
		return ErrRuleParse
	}

	if b.StartAt.IsZero() {
		return ErrRuleParse
	}

	return nil
}

// SyncWindow returns the expansion window for a sync run at now. The window
// ends at the last second of now's day in loc so same-day occurrences are
// included. ok is false when there is nothing to examine.
func (b *Blueprint) SyncWindow(now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	from = b.StartAt
	if b.LastProcessedAt != nil {
		from = *b.LastProcessedAt
	}

	to = calendar.EndOfDay(now.In(loc))
	if from.After(to) {
		return from, to, false
	}

	return from.In(loc), to, true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
