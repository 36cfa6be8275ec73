// internal/workers/risk/classify-risk-color/models.go
package classifyriskcolor

import "exposure-risk-workers/internal/models"

type Input struct {
	Risk models.LooseFloat `json:"risk"`
}

type Output struct {
	Color string `json:"color"`
	// Band is the palette index, -1 for a non-numeric risk.
	Band     int    `json:"band"`
	RiskText string `json:"riskText"`
}
