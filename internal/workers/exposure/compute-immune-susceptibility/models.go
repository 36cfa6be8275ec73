// internal/workers/exposure/compute-immune-susceptibility/models.go
package computeimmunesusceptibility

import (
	"exposure-risk-workers/internal/calculator/immunity"
	"exposure-risk-workers/internal/models"
)

type Input struct {
	RecentVaccination           string `json:"recent_vaccination"`
	VaccinationTime             string `json:"vaccination_time"`
	RecentInfection             string `json:"recent_infection"`
	InfectionTime               string `json:"infection_time"`
	Immunocompromised           string `json:"immunocompromised"`
	ImmunocompromisedReconsider string `json:"immunocompromised_reconsider"`
	NumExposures                *int   `json:"num_exposures,omitempty"`
}

func (in *Input) answers() immunity.FormAnswers {
	return immunity.FormAnswers{
		RecentVaccination:           in.RecentVaccination,
		VaccinationTime:             in.VaccinationTime,
		RecentInfection:             in.RecentInfection,
		InfectionTime:               in.InfectionTime,
		Immunocompromised:           in.Immunocompromised,
		ImmunocompromisedReconsider: in.ImmunocompromisedReconsider,
	}
}

type Output struct {
	Immune       float64                 `json:"immune"`
	Protection   float64                 `json:"protection"`
	Basis        immunity.Basis          `json:"basis"`
	Params       models.ProtectionParams `json:"params"`
	History      models.ImmunityHistory  `json:"history"`
	LegacyImmune float64                 `json:"legacyImmune"`
	Pattern      models.ExposurePattern  `json:"pattern,omitempty"`
	Sequence     []float64               `json:"sequence,omitempty"`
}
