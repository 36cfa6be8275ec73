// internal/exposure/form.go

// Package exposure parses a raw exposure form and assembles the numeric
// parameter set consumed by the single-exposure engine.
package exposure

import (
	"fmt"
	"strings"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/environment"
	"exposure-risk-workers/internal/calculator/exhalation"
	"exposure-risk-workers/internal/calculator/immunity"
	"exposure-risk-workers/internal/common/validation"
	"exposure-risk-workers/internal/models"
)

// Form defaults for fields that are missing or unparsable.
const (
	DefaultPeople        = 1
	DefaultPhysicalIndex = 1 // standing
	DefaultVocalIndex    = 1 // speaking
)

// Parsed is a form with every field converted to its working type.
type Parsed struct {
	Masked         bool
	MaskType       string
	Fit            models.FitQuality
	FitFactor      float64
	PercentMasked  float64
	OthersMaskType string

	Physical string
	Vocal    string

	People          int
	DurationSeconds float64
	DistanceFeet    float64

	Volume environment.VolumeInput
	ACH    environment.ACHInput

	Immunity immunity.FormAnswers

	// PrevalenceOverride is set only in advanced mode with a usable value.
	PrevalenceOverride *float64
	Location           string

	Warnings []string
}

// ParseForm converts the string fields of f. It never fails: every bad
// value becomes a default and a warning.
func ParseForm(f models.ExposureForm) Parsed {
	p := Parsed{
		Masked:         validation.IsTruthy(f.Masked),
		MaskType:       strings.TrimSpace(f.MaskType),
		OthersMaskType: strings.TrimSpace(f.OthersMaskType),
		Location:       strings.TrimSpace(f.ExposureLocation),
	}
	warn := func(field, msg string) {
		if msg != "" {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s: %s", field, msg))
		}
	}

	if s := strings.TrimSpace(f.FitQuality); s != "" {
		fit, ok := models.ParseFitQuality(s)
		if !ok {
			warn("fit_quality", fmt.Sprintf("unknown fit quality %q", s))
		}
		p.Fit = fit
	}

	var msg string
	p.FitFactor, msg = validation.SafeFloat(f.FitFactor, 0)
	warn("fit_factor", msg)
	p.PercentMasked, msg = validation.SafeFloat(f.PercentMasked, 0)
	warn("percentage_masked", msg)

	physical, msg := validation.SafeInt(f.PhysicalIntensityIndex, DefaultPhysicalIndex)
	warn("physical_intensity_index", msg)
	vocal, msg := validation.SafeInt(f.VocalizationIndex, DefaultVocalIndex)
	warn("vocalization_index", msg)
	p.Physical = exhalation.PhysicalFromIndex(physical)
	p.Vocal = exhalation.VocalFromIndex(vocal)

	p.People, msg = validation.SafeInt(f.People, DefaultPeople)
	warn("N", msg)
	if p.People < 1 {
		warn("N", fmt.Sprintf("%d people is below 1", p.People))
		p.People = DefaultPeople
	}
	p.DurationSeconds, msg = validation.SafeFloat(f.Duration, 0)
	warn("duration", msg)
	if p.DurationSeconds < 0 {
		warn("duration", "negative duration")
		p.DurationSeconds = 0
	}
	p.DistanceFeet, msg = validation.SafeFloat(f.Distance, 0)
	warn("distance", msg)
	if p.DistanceFeet < 0 {
		warn("distance", "negative distance")
		p.DistanceFeet = 0
	}

	setting := environment.ParseSetting(f.Setting)
	advanced := validation.IsTruthy(f.Advanced)
	p.Volume = environment.VolumeInput{
		Setting:      setting,
		Advanced:     advanced,
		RoomVolume:   f.RoomVolume,
		DistanceFeet: p.DistanceFeet,
		ACHKey:       strings.TrimSpace(f.ACH),
		VehicleType:  f.CarType,
		AircraftSize: f.AirplaneType,
	}
	p.ACH = environment.ACHInput{
		Setting:   setting,
		Advanced:  advanced,
		CustomACH: f.CustomACH,
		ACHKey:    strings.TrimSpace(f.ACH),
	}

	p.Immunity = immunity.FormAnswers{
		RecentVaccination:           f.RecentVaccination,
		VaccinationTime:             f.VaccinationTime,
		RecentInfection:             f.RecentInfection,
		InfectionTime:               f.InfectionTime,
		Immunocompromised:           f.Immunocompromised,
		ImmunocompromisedReconsider: f.ImmunocompromisedReconsider,
	}

	if advanced {
		if v, ok := parsePercent(f.Prevalence); ok {
			p.PrevalenceOverride = &v
		} else if strings.TrimSpace(f.Prevalence) != "" {
			warn("covid_prevalence", fmt.Sprintf("invalid percentage: %q", f.Prevalence))
		}
	}

	return p
}

// parsePercent reads "1.5" or "1.5%" as the fraction 0.015, clamped to [0,1].
func parsePercent(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, false
	}
	v, msg := validation.SafeFloat(s, 0)
	if msg != "" {
		return 0, false
	}
	return calculator.Clamp01(v / 100), true
}
