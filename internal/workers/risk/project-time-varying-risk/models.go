// internal/workers/risk/project-time-varying-risk/models.go
package projecttimevaryingrisk

import (
	"exposure-risk-workers/internal/models"
	"exposure-risk-workers/internal/timevarying"
)

type Input struct {
	SessionID         string                       `json:"sessionId,omitempty"`
	BaseRisk          models.LooseFloat            `json:"base_risk"`
	BasePrevalence    models.LooseFloat            `json:"base_prevalence"`
	NumExposures      *int                         `json:"num_exposures,omitempty"`
	Region            string                       `json:"region,omitempty"`
	Daily             bool                         `json:"daily"`
	StartWeek         *int                         `json:"start_week,omitempty"`
	CalculationParams *models.ExposureParameterSet `json:"calculation_params,omitempty"`
}

type Output struct {
	// Superseded is true when a newer projection for the same session
	// replaced this one; Projection is then absent.
	Superseded bool                    `json:"superseded"`
	Region     string                  `json:"region,omitempty"`
	Projection *timevarying.Projection `json:"projection,omitempty"`
}
