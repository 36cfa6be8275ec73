// internal/workers/risk/calculate-cumulative-risk/models.go
package calculatecumulativerisk

import "exposure-risk-workers/internal/models"

type Input struct {
	Risk         models.LooseFloat `json:"risk"`
	NumExposures *int              `json:"num_exposures,omitempty"`
}

type Output struct {
	models.RepeatedExposureResult
	RiskText           string `json:"riskText"`
	CumulativeRiskText string `json:"cumulativeRiskText"`
	// Threshold is the fewest exposures for which cumulative risk exceeds
	// 50%, nil when no finite count does.
	Threshold *int   `json:"threshold"`
	Color     string `json:"color"`
	Fallback  string `json:"fallback,omitempty"`
}
