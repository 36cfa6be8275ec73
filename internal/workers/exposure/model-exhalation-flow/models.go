// internal/workers/exposure/model-exhalation-flow/models.go
package modelexhalationflow

type Input struct {
	PhysicalIntensityIndex string `json:"physical_intensity_index"`
	VocalizationIndex      string `json:"vocalization_index"`
}

type Output struct {
	PhysicalActivity   string   `json:"physicalActivity"`
	VocalActivity      string   `json:"vocalActivity"`
	ActivityMultiplier float64  `json:"activity_multiplier"`
	ExhaledFlowRate    float64  `json:"Q0"`
	BreathingRate      float64  `json:"breathingRate,omitempty"` // m³/h
	Warnings           []string `json:"warnings,omitempty"`
}
