// Package utils provides number formatting shared by the chart renderer.
package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.English)

// FormatThousands formats a number with comma digit grouping.
// Whole numbers print without decimals (6300000 → "6,300,000"); anything
// else keeps two decimals (1234.5 → "1,234.50").
func FormatThousands(v float64) string {
	if math.IsInf(v, 0) || v != math.Trunc(v) {
		return groupPrinter.Sprintf("%.2f", v)
	}
	if math.Abs(v) < 1e18 {
		return groupPrinter.Sprintf("%d", int64(v))
	}
	// Beyond the exact int64 conversion range.
	return groupPrinter.Sprintf("%.0f", v)
}
