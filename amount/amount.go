// Package amount holds the fixed-precision arithmetic shared by every
// amount-bearing operation in the module. All values crossing the
// ledger or contract boundary pass through QuantizeDown first; no other
// rounding rule exists anywhere in the codebase.
package amount

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits the ledger understands.
// One stroop is 10^-7 of the native unit.
const Precision = 7

var (
	// ErrInvalidAmount indicates a string could not be parsed as a decimal.
	ErrInvalidAmount = errors.New("amount: invalid amount")

	// ErrNegativeAmount indicates a negative value where only non-negative
	// amounts are meaningful.
	ErrNegativeAmount = errors.New("amount: negative amount")

	// ErrAmountOverflow indicates a value too large for the ledger's
	// 64-bit fixed-point representation.
	ErrAmountOverflow = errors.New("amount: overflow")
)

var maxScaled = decimal.NewFromInt(math.MaxInt64)

// QuantizeDown truncates d toward zero at Precision fractional digits.
// It never rounds to nearest and never rounds up, so the module never
// promises to move more value than the caller specified.
func QuantizeDown(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Precision)
}

// Parse parses a non-negative decimal amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeAmount, s)
	}
	return d, nil
}

// ToStroops converts a decimal amount to the ledger's smallest unit,
// quantizing down first.
func ToStroops(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s", ErrNegativeAmount, d)
	}
	scaled := QuantizeDown(d).Shift(Precision)
	if scaled.GreaterThan(maxScaled) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, d)
	}
	return scaled.IntPart(), nil
}

// FromStroops converts a stroop count back to a decimal amount.
func FromStroops(v int64) decimal.Decimal {
	return decimal.New(v, -Precision)
}

// ToContractUnits converts a decimal amount to the vault contract's
// integer unit (the amount multiplied by 10^7). The scale factor is the
// same as the stroop scale; the separate name exists because the
// contract takes raw integers rather than native-asset amounts.
func ToContractUnits(d decimal.Decimal) (int64, error) {
	return ToStroops(d)
}

// FromContractUnits converts a contract integer back to a decimal amount.
func FromContractUnits(v int64) decimal.Decimal {
	return FromStroops(v)
}

// Format renders d as the ledger's canonical 7-digit fixed string.
func Format(d decimal.Decimal) string {
	return QuantizeDown(d).StringFixed(Precision)
}
