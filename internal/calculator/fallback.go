// internal/calculator/fallback.go

// Package calculator holds what the component calculators share: the
// Fallback reason returned alongside a defaulted value and the Reporter
// that turns those reasons into log lines and metrics.
package calculator

import (
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/metrics"
)

// Fallback names the default a calculator applied. The zero value means
// the result came from real input.
type Fallback string

const (
	None Fallback = ""

	NoMaskSelected      Fallback = "no_mask_selected"
	UnknownMaskType     Fallback = "unknown_mask_type"
	UnsupportedFit      Fallback = "unsupported_fit"
	FilterClamped       Fallback = "filter_clamped"
	UnknownActivity     Fallback = "unknown_activity"
	UnknownVehicleType  Fallback = "unknown_vehicle_type"
	UnknownAircraftSize Fallback = "unknown_aircraft_size"
	VolumeUnresolved    Fallback = "volume_unresolved"
	ACHUnparsable       Fallback = "ach_unparsable"
	InvalidInput        Fallback = "invalid_input"
	NonNumericRisk      Fallback = "non_numeric_risk"
	ProbabilityClamped  Fallback = "probability_clamped"
	ServiceUnavailable  Fallback = "service_unavailable"
)

// Reporter emits diagnostics whenever a calculator falls back to a default.
type Reporter struct {
	logger logger.Logger
}

func NewReporter(log logger.Logger) *Reporter {
	return &Reporter{logger: log}
}

// Report logs and counts fb for component. A None fallback is ignored.
func (r *Reporter) Report(component string, fb Fallback, fields map[string]interface{}) {
	if fb == None {
		return
	}
	metrics.DefaultsApplied.WithLabelValues(component, string(fb)).Inc()
	if r == nil || r.logger == nil {
		return
	}
	logFields := map[string]interface{}{
		"component": component,
		"reason":    string(fb),
	}
	for k, v := range fields {
		logFields[k] = v
	}
	r.logger.Warn("default applied", logFields)
}
