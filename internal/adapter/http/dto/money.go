package dto

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitExp is the number of decimal places between major and minor units.
const minorUnitExp = 2

// ErrFractionalMinorUnits is returned when an amount has more than two decimal places.
var ErrFractionalMinorUnits = errors.New("amount has more than two decimal places")

// ToMinorUnits converts a major-unit amount such as 12.34 into 1234.
func ToMinorUnits(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(minorUnitExp)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrFractionalMinorUnits, d.String())
	}

	return shifted.IntPart(), nil
}

// FromMinorUnits converts minor units into a major-unit decimal.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -minorUnitExp)
}
