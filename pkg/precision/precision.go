// Package precision turns full-precision results into display strings without
// false precision. All functions are pure and safe for concurrent use.
package precision

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DefaultDecimals is used for zero, empty sets and non-finite input.
	DefaultDecimals = 2
	// MaxDecimals caps DisplayPrecision.
	MaxDecimals = 6
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SignificantDecimals returns how many decimals are needed to show v with
// roughly three significant digits, never fewer than two.
//
//	0      -> 2
//	12345  -> 2
//	1.5    -> 3
//	0.0034 -> 5
func SignificantDecimals(v float64) int {
	if v == 0 || !finite(v) {
		return DefaultDecimals
	}
	magnitude := int(math.Floor(math.Log10(math.Abs(v))))
	if magnitude >= 0 {
		return max(DefaultDecimals, 3-magnitude)
	}
	return -magnitude + 2
}

// DisplayPrecision picks one precision for a whole set of values.
// A non-nil override wins unchanged. Otherwise it is the largest
// SignificantDecimals over the non-zero finite values, capped at MaxDecimals,
// or DefaultDecimals when there are none.
func DisplayPrecision(values []float64, override *int) int {
	if override != nil {
		return *override
	}
	decimals := 0
	for _, v := range values {
		if v == 0 || !finite(v) {
			continue
		}
		decimals = max(decimals, SignificantDecimals(v))
	}
	if decimals == 0 {
		return DefaultDecimals
	}
	return min(decimals, MaxDecimals)
}

// PercentageLabel formats a probability as a percentage:
// exactly 1 is "100%", then one decimal from 10%, two from 1%, three below.
func PercentageLabel(p float64) string {
	if !finite(p) {
		return "n/a"
	}
	if p == 1.0 {
		return "100%"
	}
	pct := p * 100
	switch {
	case pct >= 10:
		return fmt.Sprintf("%.1f%%", pct)
	case pct >= 1:
		return fmt.Sprintf("%.2f%%", pct)
	default:
		return fmt.Sprintf("%.3f%%", pct)
	}
}

// FormatValue renders v with the given decimals and thousands separators,
// e.g. FormatValue(1234.5, 2) == "1,234.50".
func FormatValue(v float64, decimals int) string {
	if !finite(v) {
		return fmt.Sprint(v)
	}
	if decimals < 0 {
		decimals = DefaultDecimals
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// FormatProbability renders p as a plain decimal, e.g. 0.30.
func FormatProbability(p float64, decimals int) string {
	if decimals < 0 {
		decimals = DefaultDecimals
	}
	return fmt.Sprintf("%.*f", decimals, p)
}
