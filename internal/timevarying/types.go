// internal/timevarying/types.go

// Package timevarying projects cumulative risk under week-by-week regional
// prevalence by delegating to the external time-varying risk service, and
// degrades to the constant-prevalence formula when that service fails.
package timevarying

import "exposure-risk-workers/internal/models"

// Endpoint is the service path, relative to the configured base URL.
const Endpoint = "/api/time-varying-risk"

// Request is the service request body.
type Request struct {
	BaseRisk          float64                      `json:"base_risk"`
	BasePrevalence    float64                      `json:"base_prevalence"`
	NumExposures      int                          `json:"num_exposures"`
	Region            string                       `json:"region"`
	Daily             bool                         `json:"daily"`
	StartWeek         *int                         `json:"start_week,omitempty"`
	CalculationParams *models.ExposureParameterSet `json:"calculation_params,omitempty"`
}

// Period is one exposure in the daily sequence.
type Period struct {
	Day            int     `json:"day"`
	Prevalence     float64 `json:"prevalence"`
	DailyRisk      float64 `json:"daily_risk"`
	CumulativeRisk float64 `json:"cumulative_risk"`
}

// Response is the service response body. Threshold is nil when no finite
// number of exposures crosses 50%.
type Response struct {
	TimeVaryingRisk float64  `json:"time_varying_risk"`
	Threshold       *int     `json:"threshold"`
	CurrentWeek     int      `json:"current_week"`
	DailySequence   []Period `json:"daily_sequence,omitempty"`
}

// Projection is what a Projector hands back: either the service response
// or a local constant-prevalence estimate marked Fallback.
type Projection struct {
	Response
	RequestID uint64 `json:"request_id"`
	Fallback  bool   `json:"fallback"`
	Advisory  string `json:"advisory,omitempty"`
}
