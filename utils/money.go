package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatVND formats a decimal amount as a string like "139.000 ₫".
// Uses dot as thousands separator; đồng amounts display without decimals.
func FormatVND(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	neg := rounded.IsNegative()
	s := rounded.Abs().String()

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 4)
	if neg {
		b.WriteString("-")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	b.WriteString(" ₫")

	return b.String()
}

// VND builds a currency-precision decimal from a whole đồng amount.
func VND(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}
