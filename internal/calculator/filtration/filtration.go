// internal/calculator/filtration/filtration.go

// Package filtration resolves the fraction of aerosol that passes through
// the wearer's mask (inhalation) and through the masks of others (exhalation).
package filtration

import (
	"strings"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/models"
)

// InhalationFilter returns f_i in [0,1]. An unmasked wearer, or a masked one
// without a mask type, gets 1. A positive fitFactor overrides the lookup with
// 1/fitFactor. With neither a lookup hit nor a fit factor the result fails open to 1.
func InhalationFilter(masked bool, maskType string, fit models.FitQuality, fitFactor float64, table models.FiLookupTable) (float64, calculator.Fallback) {
	if !masked {
		return 1, calculator.None
	}
	if strings.TrimSpace(maskType) == "" {
		return 1, calculator.NoMaskSelected
	}

	var (
		fi    float64
		found bool
	)
	if v, ok := table.Lookup(maskType, fit); ok {
		fi, found = v, true
	}
	if fitFactor > 0 {
		fi, found = 1/fitFactor, true
	}
	if !found {
		if _, known := table[models.NormalizeID(maskType)]; !known {
			return 1, calculator.UnknownMaskType
		}
		return 1, calculator.UnsupportedFit
	}

	clamped := calculator.Clamp01(fi)
	if clamped != fi {
		return clamped, calculator.FilterClamped
	}
	return fi, calculator.None
}

// ExhalationFilter converts the 0-100 share of masked others into a fraction
// and returns f_e, the base penetration of their mask type. f_e is 1 when no
// one is masked or the mask type is missing from the catalog.
func ExhalationFilter(sliderPercent float64, othersMaskType string, masks map[string]models.MaskType) (fraction, fE float64, fb calculator.Fallback) {
	fraction = calculator.Clamp01(sliderPercent / 100)
	if fraction == 0 {
		return 0, 1, calculator.None
	}
	if strings.TrimSpace(othersMaskType) == "" {
		return fraction, 1, calculator.NoMaskSelected
	}
	m, ok := masks[models.NormalizeID(othersMaskType)]
	if !ok {
		return fraction, 1, calculator.UnknownMaskType
	}
	return fraction, m.FValue, calculator.None
}
