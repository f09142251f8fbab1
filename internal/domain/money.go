package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the fixed fractional precision of every monetary amount.
const AmountScale = 4

// ParseAmount parses a decimal string into an exact amount.
// Surrounding whitespace is tolerated.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// FormatAmount renders an amount with exactly AmountScale fractional
// digits, zero-padded.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}
