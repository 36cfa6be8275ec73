// internal/common/precision/round.go
package precision

import (
	"math"

	"github.com/shopspring/decimal"
)

// Decimal places used for values written back to process variables.
const (
	FiltrationPlaces     int32 = 3
	FlowRatePlaces       int32 = 2
	SusceptibilityPlaces int32 = 4
)

// Round rounds v to places decimals, half away from zero. Decimal arithmetic
// avoids the binary artefacts of math.Round(v*10^n)/10^n, e.g. 0.1245 -> 0.125.
// NaN and infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func Filtration(v float64) float64 { return Round(v, FiltrationPlaces) }

func FlowRate(v float64) float64 { return Round(v, FlowRatePlaces) }

func Susceptibility(v float64) float64 { return Round(v, SusceptibilityPlaces) }
