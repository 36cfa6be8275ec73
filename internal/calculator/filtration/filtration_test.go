// internal/calculator/filtration/filtration_test.go
package filtration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/models"
)

// ==========================
// Inhalation Filter Tests
// ==========================

func TestInhalationFilter(t *testing.T) {
	table := catalog.Default().FiTable

	tests := []struct {
		name      string
		masked    bool
		maskType  string
		fit       models.FitQuality
		fitFactor float64
		want      float64
		wantFb    calculator.Fallback
	}{
		{"unmasked", false, "n95", models.FitAverage, 0, 1, calculator.None},
		{"masked without type", true, "", models.FitAverage, 0, 1, calculator.NoMaskSelected},
		{"n95 average lookup", true, "N95", models.FitAverage, 0, 0.12, calculator.None},
		{"kn95 snug lookup", true, "kn95", models.FitSnug, 0, 0.10, calculator.None},
		{"fit factor overrides lookup", true, "N95", models.FitAverage, 50, 0.02, calculator.None},
		{"fit factor without lookup", true, "cloth", models.FitQualitative, 20, 0.05, calculator.None},
		{"fit factor below one clamps", true, "N95", models.FitAverage, 0.1, 1, calculator.FilterClamped},
		{"unsupported fit fails open", true, "surgical", models.FitQualitative, 0, 1, calculator.UnsupportedFit},
		{"unknown mask fails open", true, "paper", models.FitAverage, 0, 1, calculator.UnknownMaskType},
		{"negative fit factor ignored", true, "n95", models.FitSnug, -5, 0.06, calculator.None},
		{"NaN fit factor ignored", true, "n95", models.FitLoose, math.NaN(), 0.35, calculator.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fb := InhalationFilter(tt.masked, tt.maskType, tt.fit, tt.fitFactor, table)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Equal(t, tt.wantFb, fb)
		})
	}
}

func TestInhalationFilter_AlwaysInUnitInterval(t *testing.T) {
	table := catalog.Default().FiTable
	factors := []float64{-100, -1, 0, 1e-9, 0.1, 0.5, 1, 2, 50, 1e9, math.Inf(1), math.NaN()}
	fits := []models.FitQuality{models.FitLoose, models.FitAverage, models.FitSnug, models.FitQualitative, "bogus"}

	for _, mask := range []string{"", "cloth", "surgical", "kn95", "n95", "elastomeric", "unknown"} {
		for _, fit := range fits {
			for _, ff := range factors {
				got, _ := InhalationFilter(true, mask, fit, ff, table)
				assert.GreaterOrEqual(t, got, 0.0)
				assert.LessOrEqual(t, got, 1.0)
			}
		}
	}
}

// ==========================
// Exhalation Filter Tests
// ==========================

func TestExhalationFilter(t *testing.T) {
	masks := catalog.Default().Masks

	tests := []struct {
		name         string
		slider       float64
		othersMask   string
		wantFraction float64
		wantFE       float64
		wantFb       calculator.Fallback
	}{
		{"nobody masked", 0, "n95", 0, 1, calculator.None},
		{"half masked surgical", 50, "surgical", 0.5, 0.5, calculator.None},
		{"all masked n95", 100, "N95", 1, 0.12, calculator.None},
		{"slider above range", 150, "kn95", 1, 0.2, calculator.None},
		{"slider below range", -20, "kn95", 0, 1, calculator.None},
		{"masked share without type", 40, "", 0.4, 1, calculator.NoMaskSelected},
		{"unknown type", 40, "bandana", 0.4, 1, calculator.UnknownMaskType},
		{"NaN slider", math.NaN(), "n95", 0, 1, calculator.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fraction, fE, fb := ExhalationFilter(tt.slider, tt.othersMask, masks)
			assert.InDelta(t, tt.wantFraction, fraction, 1e-12)
			assert.Equal(t, tt.wantFE, fE)
			assert.Equal(t, tt.wantFb, fb)
		})
	}
}

// ==========================
// Resolver Tests
// ==========================

func TestResolver(t *testing.T) {
	r := NewResolver(catalog.Default(), calculator.NewReporter(logger.NewTestLogger(t)))

	assert.Equal(t, 0.12, r.Inhalation(true, "n95", models.FitAverage, 0))
	assert.Equal(t, 1.0, r.Inhalation(true, "paper", models.FitAverage, 0))

	fraction, fE := r.Exhalation(25, "cloth")
	assert.Equal(t, 0.25, fraction)
	assert.Equal(t, 0.67, fE)
}

func BenchmarkInhalationFilter(b *testing.B) {
	table := catalog.Default().FiTable
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = InhalationFilter(true, "n95", models.FitAverage, 0, table)
	}
}
