// Package core holds the domain model and money parsing utilities shared by
// the services, the aggregation engine, and the HTTP surface.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// rejected; the transaction type carries the direction. Returns
// ErrInvalidAmount for empty, malformed, zero, or negative input.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-5")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Round1 rounds to one decimal place, the precision used for all displayed
// percentages (savings rate, rollup shares, budget usage).
func Round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

// Percent returns part/whole*100 rounded to one decimal, or 0 when whole is
// not positive. Division by zero degrades to zero rather than faulting.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return Round1(part.Div(whole).Mul(decimal.NewFromInt(100)))
}
