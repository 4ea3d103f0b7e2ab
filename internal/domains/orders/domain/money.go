package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyINR is the only currency the payment provider account settles in.
const CurrencyINR = "INR"

var (
	ErrUnknownCurrency  = errors.New("currency is not recognised")
	ErrFractionalAmount = errors.New("amount has more precision than the currency minor unit")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrAmountOverflow   = errors.New("amount overflows minor unit range")
)

// minorExponents lists the number of minor-unit digits per ISO 4217 code.
var minorExponents = map[string]int32{
	"INR": 2,
	"USD": 2,
	"EUR": 2,
	"JPY": 0,
}

// MinorExponent returns the minor unit exponent for a currency code.
func MinorExponent(currency string) (int32, error) {
	exp, ok := minorExponents[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
	}
	return exp, nil
}

// ToMinor converts a major-unit decimal into integer minor units. Values that cannot be
// represented exactly are rejected instead of rounded.
func ToMinor(amount decimal.Decimal, currency string) (int64, error) {
	exp, err := MinorExponent(currency)
	if err != nil {
		return 0, err
	}
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	scaled := amount.Shift(exp)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, ErrFractionalAmount
	}
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, ErrAmountOverflow
	}
	return scaled.IntPart(), nil
}

// FromMinor renders integer minor units as a major-unit decimal.
func FromMinor(minor int64, currency string) decimal.Decimal {
	exp, err := MinorExponent(currency)
	if err != nil {
		exp = 2
	}
	return decimal.New(minor, -exp)
}

// MulMinor multiplies a minor-unit amount by a quantity, failing on overflow.
func MulMinor(unit int64, quantity int) (int64, error) {
	if quantity < 0 || unit < 0 {
		return 0, ErrNegativeAmount
	}
	if quantity == 0 || unit == 0 {
		return 0, nil
	}
	if unit > math.MaxInt64/int64(quantity) {
		return 0, ErrAmountOverflow
	}
	return unit * int64(quantity), nil
}

// AddMinor sums two minor-unit amounts, failing on overflow.
func AddMinor(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrNegativeAmount
	}
	if a > math.MaxInt64-b {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}
