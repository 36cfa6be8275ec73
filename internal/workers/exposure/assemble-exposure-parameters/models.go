// internal/workers/exposure/assemble-exposure-parameters/models.go
package assembleexposureparameters

import (
	"exposure-risk-workers/internal/exposure"
	"exposure-risk-workers/internal/models"
)

type Input struct {
	SessionID string              `json:"sessionId,omitempty"`
	Form      models.ExposureForm `json:"form"`
}

type Output struct {
	SessionID string `json:"sessionId,omitempty"`
	exposure.Assembly
}
