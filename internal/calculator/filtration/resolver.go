// internal/calculator/filtration/resolver.go
package filtration

import (
	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/models"
)

const Component = "mask_filtration"

// Resolver binds the filtration functions to a catalog and reports every
// default it applies.
type Resolver struct {
	catalog  *catalog.Catalog
	reporter *calculator.Reporter
}

func NewResolver(cat *catalog.Catalog, reporter *calculator.Reporter) *Resolver {
	return &Resolver{catalog: cat, reporter: reporter}
}

// Inhalation resolves f_i for the wearer.
func (r *Resolver) Inhalation(masked bool, maskType string, fit models.FitQuality, fitFactor float64) float64 {
	fi, fb := InhalationFilter(masked, maskType, fit, fitFactor, r.catalog.FiTable)
	r.reporter.Report(Component, fb, map[string]interface{}{
		"maskType":   maskType,
		"fitQuality": string(fit),
		"fitFactor":  fitFactor,
	})
	return fi
}

// Exhalation resolves the masked fraction of others and their f_e.
func (r *Resolver) Exhalation(sliderPercent float64, othersMaskType string) (fraction, fE float64) {
	fraction, fE, fb := ExhalationFilter(sliderPercent, othersMaskType, r.catalog.Masks)
	r.reporter.Report(Component, fb, map[string]interface{}{
		"othersMaskType": othersMaskType,
		"percentMasked":  sliderPercent,
	})
	return fraction, fE
}
