// Package money implements the non-negative decimal amount used for every
// balance in the ledger.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the maximum number of fractional digits an amount may carry.
const Scale = 4

// MaxExponent bounds the decimal exponent of an amount in either direction.
// Larger exponents would make every later rescale allocate a number with
// that many digits.
const MaxExponent = 28

// ErrInsufficient is returned by CheckedSub when the result would be negative.
var ErrInsufficient = errors.New("insufficient funds")

// Money is a non-negative decimal amount. The zero value is a valid zero.
//
// The exponent of the underlying decimal records the precision the amount
// was written with, so "1.50" formats back as "1.50" and sums keep the
// finest precision of their operands.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// Parse reads a decimal amount such as "12", "0.5" or "3.1400".
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, errors.New("empty amount")
	}
	if strings.ContainsAny(s, "eE") {
		return Money{}, fmt.Errorf("parsing amount %q: exponent notation is not accepted", s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal validates d and wraps it.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("amount %s is negative", d)
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return Money{}, fmt.Errorf("amount exponent %d is out of range [-%d, %d]", exp, MaxExponent, MaxExponent)
	}
	if d.Exponent() < -Scale {
		// Trailing zeros beyond Scale are harmless; real digits are not.
		truncated := d.Truncate(Scale)
		if !truncated.Equal(d) {
			return Money{}, fmt.Errorf("amount %s has more than %d decimal places", d, Scale)
		}
		d = truncated
	}
	return Money{d: d}, nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// CheckedSub returns m - o, or ErrInsufficient if o is greater than m.
func (m Money) CheckedSub(o Money) (Money, error) {
	if m.d.Cmp(o.d) < 0 {
		return m, ErrInsufficient
	}
	return Money{d: m.d.Sub(o.d)}, nil
}

// IsZero reports whether m is zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// Equal reports whether m and o have the same value, regardless of precision.
func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

// GreaterThanOrEqual reports whether m >= o.
func (m Money) GreaterThanOrEqual(o Money) bool {
	return m.d.Cmp(o.d) >= 0
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String formats m with as many fractional digits as it was written with.
func (m Money) String() string {
	if exp := m.d.Exponent(); exp < 0 {
		return m.d.StringFixed(-exp)
	}
	return m.d.String()
}
