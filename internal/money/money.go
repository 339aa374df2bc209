// Package money converts currency strings into integer minor units.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMinor turns "$12.34" into 1234. A leading symbol is optional, digits
// beyond the second decimal place are rounded half away from zero.
func ParseMinor(s, symbol string) (int64, error) {
	raw := strings.TrimSpace(s)
	if symbol != "" {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, symbol))
	}
	if raw == "" {
		return 0, fmt.Errorf("empty price %q", s)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %q", s)
	}
	minor := d.Shift(2).Round(0)
	if !minor.IsInteger() || minor.Cmp(decimal.NewFromInt(math.MaxInt64)) > 0 {
		return 0, fmt.Errorf("price %q out of range", s)
	}
	return minor.IntPart(), nil
}

// Format renders minor units back as a decimal amount, e.g. 1250 -> "12.50".
func Format(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
