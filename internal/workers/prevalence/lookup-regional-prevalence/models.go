// internal/workers/prevalence/lookup-regional-prevalence/models.go
package lookupregionalprevalence

import "exposure-risk-workers/internal/prevalence"

type Input struct {
	ExposureLocation string `json:"exposure_location"`
	// Week is the ISO week; 0 selects the configured default week.
	Week     int `json:"week"`
	NumWeeks int `json:"num_weeks"`
}

type Output struct {
	prevalence.Result
	Sequence []prevalence.Result `json:"sequence,omitempty"`
}
