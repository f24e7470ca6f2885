// Package money provides a fixed-precision currency value stored in minor
// units (cents). Balances and amounts are never held or compared as binary
// floating point; all arithmetic is exact int64 math.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount indicates a value that cannot be represented as an exact
// two-decimal currency amount.
var ErrInvalidAmount = errors.New("invalid amount")

// floatTolerance absorbs binary-decimal round-trip noise when converting a
// float64 amount to cents: anything within 1/1000 of a cent is treated as
// exact, anything further off is rejected.
const floatTolerance = 0.001

// Money is a currency amount in minor units. The zero value is $0.00.
type Money int64

// FromCents returns the Money for an exact number of minor units.
func FromCents(cents int64) Money {
	return Money(cents)
}

// Parse converts a decimal string such as "12.34" into Money. At most two
// fractional digits are accepted; a third digit is allowed only when the
// value still rounds exactly (e.g. "10.005" becomes $10.01 via
// round-half-away). Empty strings and non-numeric input fail with
// ErrInvalidAmount. Sign validation is the caller's concern.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" && (!hasFrac || fracPart == "") {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if intPart == "" {
		intPart = "0"
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if units > math.MaxInt64/100 {
		return 0, fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	}

	var cents int64
	if hasFrac {
		if len(fracPart) > 3 {
			return 0, fmt.Errorf("%w: at most two decimal places allowed", ErrInvalidAmount)
		}
		for _, r := range fracPart {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
			}
		}
		switch len(fracPart) {
		case 1:
			cents = int64(fracPart[0]-'0') * 10
		case 2:
			cents, _ = strconv.ParseInt(fracPart, 10, 64)
		case 3:
			// Third digit is only there to be rounded half-away.
			cents, _ = strconv.ParseInt(fracPart[:2], 10, 64)
			if fracPart[2] >= '5' {
				cents++
			}
		}
	}

	total := units * 100
	if total > math.MaxInt64-cents {
		return 0, fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	}
	total += cents
	if neg {
		total = -total
	}
	return Money(total), nil
}

// FromFloat converts a float64 amount in major units to Money. Values that
// carry more than two decimal places beyond the rounding tolerance are
// rejected with ErrInvalidAmount; in-tolerance values are rounded half-away
// on the scaled integer, so 10.005 becomes $10.01.
func FromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
	}
	scaled := f * 100
	if math.Abs(scaled) >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	}
	if math.Abs(scaled-math.Round(scaled)) >= floatTolerance {
		return 0, fmt.Errorf("%w: at most two decimal places allowed", ErrInvalidAmount)
	}
	return Money(int64(math.Round(scaled))), nil
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m - other
}

// Cmp compares m against other, returning -1, 0 or +1.
func (m Money) Cmp(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsNegative reports whether m is strictly less than zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Float64 returns the amount in major units for display and serialization.
// It must never be fed back into arithmetic or comparisons.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String formats the amount as a currency string, e.g. "$12.34" or "-$0.50".
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
