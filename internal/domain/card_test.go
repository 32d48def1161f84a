package domain

import (
	"errors"
	"testing"
)

func TestCardValidateCharge(t *testing.T) {
	t.Parallel()

	card := &Card{ID: "card-1", Name: "Gold", MaxLimit: 100000, LimitUsed: 90000}

	t.Run("fits exactly", func(t *testing.T) {
		if err := card.ValidateCharge(10000); err != nil {
			t.Fatalf("expected charge to fit, got %v", err)
		}
	})

	t.Run("exceeds available", func(t *testing.T) {
		err := card.ValidateCharge(15000)
		if !errors.Is(err, ErrInsufficientCreditLimit) {
			t.Fatalf("expected ErrInsufficientCreditLimit, got %v", err)
		}

		var limitErr *LimitError
		if !errors.As(err, &limitErr) {
			t.Fatalf("expected *LimitError, got %T", err)
		}
		if limitErr.Available != 10000 || limitErr.Attempted != 15000 || limitErr.CardName != "Gold" {
			t.Fatalf("unexpected limit error fields: %+v", limitErr)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		if err := card.ValidateCharge(0); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestCardValidate(t *testing.T) {
	t.Parallel()

	valid := Card{Name: "Gold", MaxLimit: 5000, ClosingDay: 20, DueDay: 10}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(c *Card)
		wantErr error
	}{
		{"empty name", func(c *Card) { c.Name = " " }, ErrInvalidName},
		{"zero limit", func(c *Card) { c.MaxLimit = 0 }, ErrInvalidCardLimit},
		{"closing day zero", func(c *Card) { c.ClosingDay = 0 }, ErrInvalidClosingDay},
		{"closing day 32", func(c *Card) { c.ClosingDay = 32 }, ErrInvalidClosingDay},
		{"due day 32", func(c *Card) { c.DueDay = 32 }, ErrInvalidDueDay},
		{"used over max", func(c *Card) { c.LimitUsed = 6000 }, ErrInsufficientCreditLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
