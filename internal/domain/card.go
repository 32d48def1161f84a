package domain

// Card is a credit card whose limit is consumed by outflow postings.
// Invariant after every commit: 0 <= LimitUsed <= MaxLimit.
type Card struct {
	ID             string
	Name           string
	ColorID        int
	MaxLimit       int64
	LimitUsed      int64
	ClosingDay     int
	DueDay         int
	IgnoreWeekends bool
}

// Available returns the credit still available on the card.
func (c *Card) Available() int64 {
	return c.MaxLimit - c.LimitUsed
}

// ValidateCharge checks if a charge of amount (minor units, magnitude) fits
// in the available credit.
func (c *Card) ValidateCharge(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if amount > c.Available() {
		return &LimitError{
			CardID:    c.ID,
			CardName:  c.Name,
			Attempted: amount,
			Available: c.Available(),
		}
	}

	return nil
}

// Validate validates card settings.
func (c *Card) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}

	if c.MaxLimit <= 0 {
		return ErrInvalidCardLimit
	}

	if c.LimitUsed < 0 || c.LimitUsed > c.MaxLimit {
		return ErrInsufficientCreditLimit
	}

	if !validDay(c.ClosingDay) {
		return ErrInvalidClosingDay
	}

	if !validDay(c.DueDay) {
		return ErrInvalidDueDay
	}

	return nil
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}
