// Package units formats sizes, counts and percentages for display.
package units

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number formats n with thousands separators: 1234567 -> "1,234,567".
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// KB formats a size given in KB, switching to MB or GB above 1024.
func KB(kb int) string {
	const unit = 1024
	if kb < unit && kb > -unit {
		return printer.Sprintf("%d KB", kb)
	}
	div, exp := unit, 0
	for n := kb / unit; n >= unit || n <= -unit; n /= unit {
		div *= unit
		exp++
	}
	return printer.Sprintf("%.1f %cB", float64(kb)/float64(div), "MGTPE"[exp])
}

// Percent returns part/whole as a percentage, 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// FormatPercent formats part/whole with two decimals: "9.77%".
func FormatPercent(part, whole int) string {
	return printer.Sprintf("%.2f%%", Percent(part, whole))
}
