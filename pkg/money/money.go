// Package money converts between integer minor units (paise) and the rupee
// amounts shown to people.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "₹"

// Format renders cents as "₹250.00".
func Format(cents int64) string {
	return Symbol + decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
}

// Parse reads "250", "250.5" or "₹250.50" into minor units. More than two
// decimal places is rejected rather than rounded.
func Parse(raw string) (int64, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), Symbol))
	if trimmed == "" {
		return 0, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	cents := amount.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than two decimal places", raw)
	}
	return cents.IntPart(), nil
}
