// internal/calculator/cumulative/cumulative.go

// Package cumulative extends a single-exposure infection probability to
// repeated independent exposures and formats probabilities for display.
package cumulative

import (
	"math"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/models"
)

// Component is the label used when a fallback is reported for this calculator.
const Component = "cumulative_exposure"

// maxRepetitions bounds RepetitionsToExceedHalf so the result fits an int
// on every platform.
const maxRepetitions = 1 << 31

// Risk returns 1−(1−p)^n, the probability of at least one infection in n
// independent exposures. p is clamped into [0,1] and n ≤ 0 yields 0.
func Risk(p float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	p = calculator.Clamp01(p)
	if p == 0 {
		return 0
	}
	// expm1/log1p keeps precision when p is tiny.
	return -math.Expm1(float64(n) * math.Log1p(-p))
}

// RepetitionsToExceedHalf returns the smallest n with Risk(p, n) > 0.5.
// It reports false for p outside (0,1), where no such finite n is defined,
// and for p so small that n would exceed maxRepetitions.
func RepetitionsToExceedHalf(p float64) (int, bool) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, false
	}

	raw := math.Ceil(math.Log(0.5) / math.Log1p(-p))
	if raw > maxRepetitions {
		return 0, false
	}
	n := int(raw)
	if n < 1 {
		n = 1
	}

	// ceil lands on the boundary when Risk(p, n) is exactly 0.5 (p = 0.5),
	// and rounding in the logs can be off by one either way.
	for Risk(p, n) <= 0.5 {
		n++
	}
	for n > 1 && Risk(p, n-1) > 0.5 {
		n--
	}
	return n, true
}

// Repeated bundles Risk with its inputs.
func Repeated(p float64, n int) models.RepeatedExposureResult {
	return models.RepeatedExposureResult{
		PerExposureRisk: p,
		RepetitionCount: n,
		CumulativeRisk:  Risk(p, n),
	}
}

// Series returns Risk(p, 1) .. Risk(p, n).
func Series(p float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = Risk(p, i+1)
	}
	return out
}

// Compound folds a sequence of per-period risks into cumulative risks,
// treating periods as independent: c_k = 1 − Π(1 − r_i).
func Compound(periodRisks []float64) []float64 {
	out := make([]float64, len(periodRisks))
	survival := 1.0
	for i, r := range periodRisks {
		survival *= 1 - calculator.Clamp01(r)
		out[i] = 1 - survival
	}
	return out
}
