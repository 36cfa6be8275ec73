// internal/calculator/environment/resolver.go
package environment

import (
	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/catalog"
)

const Component = "environment"

// Resolver binds Volume and ACH to a catalog and reports defaults.
type Resolver struct {
	catalog  *catalog.Catalog
	reporter *calculator.Reporter
}

func NewResolver(cat *catalog.Catalog, reporter *calculator.Reporter) *Resolver {
	return &Resolver{catalog: cat, reporter: reporter}
}

// Resolution is a resolved value together with the step that produced it.
type Resolution struct {
	Value  float64 `json:"value"`
	Source Source  `json:"source"`
}

func (r *Resolver) Volume(in VolumeInput) Resolution {
	v, src, fb := Volume(in, r.catalog)
	r.reporter.Report(Component, fb, map[string]interface{}{
		"quantity":     "volume",
		"setting":      string(in.Setting),
		"achKey":       in.ACHKey,
		"vehicleType":  in.VehicleType,
		"aircraftSize": in.AircraftSize,
	})
	return Resolution{Value: v, Source: src}
}

func (r *Resolver) ACH(in ACHInput) Resolution {
	v, src, fb := ACH(in, r.catalog)
	r.reporter.Report(Component, fb, map[string]interface{}{
		"quantity": "ach",
		"setting":  string(in.Setting),
		"achKey":   in.ACHKey,
	})
	return Resolution{Value: v, Source: src}
}
