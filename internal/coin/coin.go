// Package coin provides shared Dooficoin parsing and arithmetic helpers.
//
// Dooficoin amounts are arbitrary-precision decimals. Mining emits rewards
// as small as 1e-35 per tick while lifetime balances can grow very large,
// so amounts are never represented as floats. Balances are persisted as
// decimal strings and parsed on demand.
package coin

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Code is the currency code recorded on ledger entries.
const Code = "DOOF"

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Parse converts a decimal string (e.g. "1.5") into a Dooficoin amount.
// Returns (zero, false) on invalid input.
//
// Rules:
//   - Empty string parses as zero
//   - Negative amounts are rejected
//   - Exponent notation is rejected (balances are stored in plain form)
func Parse(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, true
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() < 0 {
		return decimal.Zero, false
	}
	return d, true
}

// MustParse parses a trusted decimal literal, panicking on error.
// Used for configuration defaults and named policy constants.
func MustParse(s string) decimal.Decimal {
	d, ok := Parse(s)
	if !ok {
		panic("coin: invalid amount: " + s)
	}
	return d
}

// Format renders an amount as a plain decimal string with no exponent,
// the form stored in player wallets and ledger entries.
func Format(d decimal.Decimal) string {
	return d.String()
}

// Percent returns fraction*amount, computed exactly. The fraction is a
// decimal such as "0.2" for 20%. Percent-based transfers are computed
// from the balance at call time so the result is reproducible from the
// inputs alone.
func Percent(amount, fraction decimal.Decimal) decimal.Decimal {
	return amount.Mul(fraction)
}
