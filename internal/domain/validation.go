package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidDescription = errors.New("invalid description")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidIDFormat    = errors.New("invalid ID format")
	ErrInvalidDay         = errors.New("invalid day of month")
)

// Validation constants
const (
	MaxNameLength        = 255
	MinNameLength        = 1
	MaxDescriptionLength = 500
	MaxAmount            = int64(100_000_000_000_000) // minor units
	MaxInstallments      = 120
)

// ValidateName validates a card name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateDescription validates a posting or blueprint description
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateAmount validates a magnitude in minor units
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if amount > MaxAmount {
		return fmt.Errorf("%w: maximum amount is %d", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateInstallmentCount validates the number of installments of a purchase
func ValidateInstallmentCount(count int) error {
	if count < 1 || count > MaxInstallments {
		return fmt.Errorf("%w: must be between 1 and %d", ErrInvalidInstallmentCount, MaxInstallments)
	}

	return nil
}

// ValidateDay validates a day-of-month setting
func ValidateDay(day int) error {
	if !validDay(day) {
		return fmt.Errorf("%w: %d out of range 1..31", ErrInvalidDay, day)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
