// Package currency provides integer-exact money arithmetic in base units
// (cents). All ledger math happens on Cents; decimal representation exists
// only at the serialization boundary.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a signed monetary amount in base units (1/100 of the currency).
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a decimal amount (e.g. "12.34") to Cents.
// Amounts with more than two fractional digits are rejected.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", d)
	}
	return Cents(scaled.IntPart()), nil
}

// Parse converts a decimal string to Cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// Decimal returns the amount as a two-decimal-place decimal value.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with exactly two fractional digits, e.g. "12.34".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// MarshalJSON serializes the amount as a JSON number with exactly two
// fractional digits.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts JSON numbers or numeric strings.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
