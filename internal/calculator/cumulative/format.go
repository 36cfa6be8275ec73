// internal/calculator/cumulative/format.go
package cumulative

import (
	"fmt"
	"math"
)

const (
	aboveCeiling = "> 99.999999%"
	belowFloor   = "< 0.0000001%"
)

type rung struct {
	min    float64 // percent
	digits int
}

// Precision grows toward both ends of the scale so that near-certain and
// near-impossible outcomes never print as 100% or 0%.
var (
	highLadder = []rung{
		{99.99999, 6},
		{99.9999, 5},
		{99.999, 4},
		{99.99, 3},
		{99.9, 2},
		{0.1, 1},
	}
	lowLadder = []rung{
		{0.01, 2},
		{0.001, 3},
		{0.0001, 4},
		{0.00001, 5},
		{0.000001, 6},
		{0.0000001, 7},
	}
)

// FormatPercent renders a probability in [0,1] as a percentage.
func FormatPercent(p float64) string {
	if math.IsNaN(p) {
		return "n/a"
	}
	percent := p * 100
	if percent >= 99.999999 {
		return aboveCeiling
	}
	if digits, ok := digitsFor(percent); ok {
		return fmt.Sprintf("%.*f%%", digits, percent)
	}
	return belowFloor
}

func digitsFor(percent float64) (int, bool) {
	for _, r := range highLadder {
		if percent >= r.min {
			return r.digits, true
		}
	}
	for _, r := range lowLadder {
		if percent >= r.min {
			return r.digits, true
		}
	}
	return 0, false
}

// Thresholds for the extra digit in FormatConfidenceInterval. Either bound
// reaching a rung selects it.
var intervalLadder = []rung{
	{99.9999, 7},
	{99.999, 6},
	{99.99, 5},
	{99.9, 4},
	{99.0, 3},
	{0.1, 2},
	{0.01, 3},
	{0.001, 4},
	{0.0001, 5},
	{0.00001, 6},
	{0.000001, 7},
	{0.0000001, 8},
}

// FormatConfidenceInterval formats both bounds like FormatPercent. When the
// two would print identically it adds one decimal so the interval stays
// visibly non-degenerate. Bounds at the extremes are left as they are.
func FormatConfidenceInterval(lower, upper float64) (string, string) {
	lo, hi := FormatPercent(lower), FormatPercent(upper)
	if lo != hi {
		return lo, hi
	}

	loPct, hiPct := lower*100, upper*100
	if loPct >= 99.99999 || hiPct >= 99.99999 {
		return lo, hi
	}
	for _, r := range intervalLadder {
		if loPct >= r.min || hiPct >= r.min {
			return fmt.Sprintf("%.*f%%", r.digits, loPct), fmt.Sprintf("%.*f%%", r.digits, hiPct)
		}
	}
	return lo, hi
}
