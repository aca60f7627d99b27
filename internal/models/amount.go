package models

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the booking token's precision. Balances, prices and
// allowances travel through the gateway in the smallest unit; display
// conversion happens only at the API edge.
const TokenDecimals = 18

// FormatAmount renders a smallest-unit amount in display units, trimming
// trailing zeros ("1500000000000000000" -> "1.5").
func FormatAmount(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -TokenDecimals).String()
}

// ParseAmount converts a display-unit string into a smallest-unit amount.
// Fractions finer than the token's precision are rejected rather than
// truncated.
func ParseAmount(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	scaled := d.Shift(TokenDecimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimal places", s, TokenDecimals)
	}
	return scaled.BigInt(), nil
}
