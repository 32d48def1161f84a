package domain

import (
	"errors"
	"testing"
	"time"
)

func TestBlueprintValidate(t *testing.T) {
	t.Parallel()

	base := Blueprint{
		Amount:      -4990,
		Description: "Streaming",
		Flow:        FlowOutflow,
		StartAt:     day(2024, 1, 15),
		Rule:        "FREQ=MONTHLY;BYMONTHDAY=15",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid blueprint, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(b *Blueprint)
		wantErr error
	}{
		{"unknown flow", func(b *Blueprint) { b.Flow = "sideways" }, ErrInvalidFlow},
		{"zero amount", func(b *Blueprint) { b.Amount = 0 }, ErrInvalidAmount},
		{"positive outflow", func(b *Blueprint) { b.Amount = 4990 }, ErrAmountFlowMismatch},
		{"negative inflow", func(b *Blueprint) { b.Flow = FlowInflow }, ErrAmountFlowMismatch},
		{"empty rule", func(b *Blueprint) { b.Rule = "" }, ErrRuleParse},
		{"too large", func(b *Blueprint) { b.Amount = -(MaxAmount + 1) }, ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			tt.mutate(&b)
			if err := b.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBlueprintSyncWindow(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	b := Blueprint{StartAt: day(2024, 1, 1)}
	from, to, ok := b.SyncWindow(now, loc)
	if !ok {
		t.Fatalf("expected window")
	}
	if !from.Equal(b.StartAt) {
		t.Fatalf("expected window from start, got %s", from)
	}
	if want := time.Date(2024, 3, 10, 23, 59, 59, 0, loc); !to.Equal(want) {
		t.Fatalf("expected window to end at %s, got %s", want, to)
	}

	watermark := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
	b.LastProcessedAt = &watermark
	if from, _, _ = b.SyncWindow(now, loc); !from.Equal(watermark) {
		t.Fatalf("expected window from watermark, got %s", from)
	}

	future := Blueprint{StartAt: day(2024, 4, 1)}
	if _, _, ok := future.SyncWindow(now, loc); ok {
		t.Fatalf("expected no window for future blueprint")
	}
}

func TestFlowSignedAmount(t *testing.T) {
	t.Parallel()

	if got := FlowOutflow.SignedAmount(500); got != -500 {
		t.Fatalf("expected -500, got %d", got)
	}
	if got := FlowInflow.SignedAmount(-500); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
}

func TestPostingStatementAmount(t *testing.T) {
	t.Parallel()

	out := Posting{Amount: -1200, Flow: FlowOutflow}
	in := Posting{Amount: 300, Flow: FlowInflow}
	if out.StatementAmount()+in.StatementAmount() != 900 {
		t.Fatalf("expected net 900, got %d", out.StatementAmount()+in.StatementAmount())
	}
}
