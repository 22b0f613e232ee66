package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gookit/validate"
)

// Saving is a named accumulator such as money not spent.
type Saving struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// SavingInput is the raw user input for a saving entry.
type SavingInput struct {
	Amount string `validate:"required|isFloat"`
	Unit   string `validate:"required"`
}

// ParseSaving validates raw amount and unit strings. Blank or non-numeric
// values are rejected, never coerced.
func ParseSaving(amount, unit string) (Saving, error) {
	in := &SavingInput{
		Amount: strings.TrimSpace(amount),
		Unit:   strings.TrimSpace(unit),
	}
	v := validate.Struct(in)
	if !v.Validate() {
		return Saving{}, fmt.Errorf("%w: %s", ErrValidation, v.Errors.One())
	}
	value, err := strconv.ParseFloat(in.Amount, 64)
	if err != nil {
		return Saving{}, fmt.Errorf("%w: amount %q is not a number", ErrValidation, amount)
	}
	return Saving{Amount: value, Unit: in.Unit}, nil
}

// ValidateSavingName rejects blank saving names.
func ValidateSavingName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: saving name is required", ErrValidation)
	}
	return nil
}
