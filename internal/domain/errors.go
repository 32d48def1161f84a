package domain

import (
	"errors"
	"fmt"
)

var (
	// Card errors
	ErrCardNotFound            = errors.New("card not found")
	ErrInsufficientCreditLimit = errors.New("insufficient credit limit")
	ErrInvalidCardLimit        = errors.New("card limit must be positive")
	ErrInvalidClosingDay       = errors.New("closing day must be between 1 and 31")
	ErrInvalidDueDay           = errors.New("due day must be between 1 and 31")

	// Blueprint errors
	ErrBlueprintNotFound  = errors.New("recurring blueprint not found")
	ErrRuleParse          = errors.New("invalid recurrence rule")
	ErrInvalidFlow        = errors.New("flow must be inflow or outflow")
	ErrAmountFlowMismatch = errors.New("amount sign does not match flow")
	ErrNotInstallment     = errors.New("blueprint is not an installment purchase")

	// Posting errors
	ErrPostingNotFound  = errors.New("posting not found")
	ErrDuplicatePosting = errors.New("occurrence already posted")
	ErrInvalidAmount    = errors.New("amount must be non-zero")

	// Installment errors
	ErrInvalidInstallmentCount = errors.New("invalid installment count")
)

// LimitError reports a charge refused by admission control.
type LimitError struct {
	CardID    string
	CardName  string
	Attempted int64
	Available int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: card %s attempted %d, available %d",
		ErrInsufficientCreditLimit, e.CardID, e.Attempted, e.Available)
}

// Unwrap makes errors.Is(err, ErrInsufficientCreditLimit) hold.
func (e *LimitError) Unwrap() error {
	return ErrInsufficientCreditLimit
}
