// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Undefined is shown in place of a NaN value.
const Undefined = "n/a"

// FormatFloat formats value with the given decimals, or Undefined for NaN.
func FormatFloat(value float64, decimals int) string {
	if math.IsNaN(value) {
		return Undefined
	}
	return fmt.Sprintf("%.*f", decimals, value)
}

// FormatSigned formats value with an explicit sign.
func FormatSigned(value float64, decimals int) string {
	if math.IsNaN(value) {
		return Undefined
	}
	return fmt.Sprintf("%+.*f", decimals, value)
}

// FormatPercent formats a fraction (0.05) as a signed percentage (+5.00%).
func FormatPercent(fraction float64) string {
	if math.IsNaN(fraction) {
		return Undefined
	}
	sign := ""
	if fraction > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, fraction*100)
}

// FormatPrice formats a price with thousands separators and two decimals.
func FormatPrice(price float64) string {
	if math.IsNaN(price) {
		return Undefined
	}
	return humanize.FormatFloat("#,###.##", price)
}

// FormatVolume formats a share volume with thousands separators.
func FormatVolume(volume int64) string {
	return humanize.Comma(volume)
}

// FormatCompact formats a large number in SI form (1.2M).
func FormatCompact(value float64) string {
	if math.IsNaN(value) {
		return Undefined
	}
	v, prefix := humanize.ComputeSI(value)
	return strings.TrimSpace(humanize.FtoaWithDigits(v, 2) + prefix)
}

// FormatCount formats a count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatPValue formats a p-value, switching to scientific notation for
// very small values.
func FormatPValue(p float64) string {
	if math.IsNaN(p) {
		return Undefined
	}
	if p != 0 && p < 1e-4 {
		return fmt.Sprintf("%.2e", p)
	}
	return fmt.Sprintf("%.4f", p)
}

// Truncate shortens s to max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
