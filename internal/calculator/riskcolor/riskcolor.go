// internal/calculator/riskcolor/riskcolor.go

// Package riskcolor maps a risk probability onto a fixed green-to-red
// severity palette for display.
package riskcolor

import (
	"math"
	"strconv"
	"strings"
)

// Neutral is returned for input that is not a number.
const Neutral = "#9ca3af"

var breakpoints = [...]float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

// palette has one more entry than breakpoints; the last entry covers [0.9, ∞).
var palette = [...]string{
	"#1a9850",
	"#66bd63",
	"#a6d96a",
	"#d9ef8b",
	"#fee08b",
	"#fdc058",
	"#fdae61",
	"#f98e52",
	"#f46d43",
	"#e34a33",
	"#d73027",
}

// Band returns the palette index for v, or -1 when v is NaN.
func Band(v float64) int {
	if math.IsNaN(v) {
		return -1
	}
	for i, bp := range breakpoints {
		if v < bp {
			return i
		}
	}
	return len(breakpoints)
}

// Classify returns the hex colour for a risk value.
func Classify(v float64) string {
	i := Band(v)
	if i < 0 {
		return Neutral
	}
	return palette[i]
}

// ClassifyString parses s as a float and classifies it. Anything that does
// not parse, including Inf spellings, gets Neutral.
func ClassifyString(s string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return Neutral
	}
	return Classify(v)
}

// Palette returns a copy of the colours in ascending severity.
func Palette() []string {
	out := make([]string, len(palette))
	copy(out, palette[:])
	return out
}
