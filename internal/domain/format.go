package domain

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Unavailable is shown in place of any value that could not be produced.
const Unavailable = "Data unavailable"

// FormatNumber renders v with en-US digit grouping and two fraction digits.
// Values that round to zero render as "0". Other whole numbers keep their
// trailing zeros ("7.00"), unlike a minimum-fraction-0 locale format which
// would print "7".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case math.Round(v*100) == 0:
		return "0"
	}
	return message.NewPrinter(language.AmericanEnglish).Sprintf("%.2f", v)
}

// FormatFixed renders v with exactly two fraction digits and no grouping.
// It is the format of the numeric fields in the detail page URL contract.
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatScale renders a CSS scale factor with the shortest exact decimal.
func formatScale(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "1"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
