package viewmodel

import (
	"math"
	"strings"
	"time"

	"github.com/Veraticus/cabdesk/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every money amount.
const CurrencySymbol = "₹"

var printer = message.NewPrinter(language.Make("en-IN"))

// FormatNumber renders n with en-IN digit grouping and two decimals.
// Absent values render as zero.
func FormatNumber(n model.Number) string {
	return formatDecimal(n.Float())
}

func formatDecimal(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatCurrency renders n as a rupee amount.
func FormatCurrency(n model.Number) string {
	return CurrencySymbol + FormatNumber(n)
}

// FormatDistance renders n in kilometres.
func FormatDistance(n model.Number) string {
	return FormatNumber(n) + " km"
}

// FormatCount renders a whole-number total such as trips.
func FormatCount(n model.Number) string {
	return printer.Sprint(number.Decimal(n.Int()))
}

// Money is a rendered amount whose sign is carried separately so it can be
// shown through styling.
type Money struct {
	Text     string
	Negative bool
}

// FormatNetIncome renders the magnitude of n; the sign moves to Negative.
func FormatNetIncome(n model.Number) Money {
	v := n.Float()
	return Money{
		Text:     CurrencySymbol + formatDecimal(math.Abs(v)),
		Negative: v < 0,
	}
}

// FormatDay renders an API date as "05 Mar". Both plain dates and RFC 3339
// timestamps are accepted; anything else is returned unchanged.
func FormatDay(s string) string {
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t.Format("02 Jan")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("02 Jan")
	}
	return s
}

// NormalizeDate reduces an API date to YYYY-MM-DD.
func NormalizeDate(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(model.DateLayout)
	}
	if len(s) > len(model.DateLayout) {
		return s[:len(model.DateLayout)]
	}
	return s
}

// TruncateString truncates a string to the specified length with ellipsis.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SanitizeForDisplay removes potentially problematic characters for terminal display.
func SanitizeForDisplay(s string) string {
	// Remove control characters and normalize whitespace
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	// Collapse multiple spaces
	return strings.Join(strings.Fields(s), " ")
}
