package tui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with locale-aware thousands separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatCount formats an integer with thousands separators.
// Example: FormatCount(18248) returns "18,248".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent formats a 0-100 percentage with one decimal place.
func FormatPercent(p float64) string {
	return printer.Sprintf("%.1f%%", p)
}
