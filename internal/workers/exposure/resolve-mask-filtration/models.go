// internal/workers/exposure/resolve-mask-filtration/models.go
package resolvemaskfiltration

import "exposure-risk-workers/internal/models"

type Input struct {
	Masked         string `json:"masked"`
	MaskType       string `json:"mask_type"`
	FitQuality     string `json:"fit_quality"`
	FitFactor      string `json:"fit_factor"`
	PercentMasked  string `json:"percentage_masked"`
	OthersMaskType string `json:"others_mask_type"`
}

func (in *Input) form() models.ExposureForm {
	return models.ExposureForm{
		Masked:         in.Masked,
		MaskType:       in.MaskType,
		FitQuality:     in.FitQuality,
		FitFactor:      in.FitFactor,
		PercentMasked:  in.PercentMasked,
		OthersMaskType: in.OthersMaskType,
	}
}

type Output struct {
	InhalationFilter float64  `json:"f_i"`
	ExhalationFilter float64  `json:"f_e"`
	MaskedFraction   float64  `json:"percentage_masked"`
	Warnings         []string `json:"warnings,omitempty"`
}
