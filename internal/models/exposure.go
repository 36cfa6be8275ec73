// internal/models/exposure.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExposureForm is the raw form as submitted. Values arrive as strings or
// JSON numbers; a number keeps its literal text. Everything is parsed
// defensively downstream.
type ExposureForm struct {
	Masked         string `json:"masked"`
	MaskType       string `json:"mask_type"`
	FitQuality     string `json:"fit_quality"`
	FitFactor      string `json:"fit_factor"`
	PercentMasked  string `json:"percentage_masked"`
	OthersMaskType string `json:"others_mask_type"`

	PhysicalIntensityIndex string `json:"physical_intensity_index"`
	VocalizationIndex      string `json:"vocalization_index"`

	People   string `json:"N"`
	Duration string `json:"duration"` // seconds
	Distance string `json:"distance"` // feet

	Setting      string `json:"setting"`
	ACH          string `json:"ACH"`
	CarType      string `json:"car_type"`
	AirplaneType string `json:"airplane_type"`
	Advanced     string `json:"advanced"`
	CustomACH    string `json:"custom_ACH"`
	RoomVolume   string `json:"room_volume"`

	RecentVaccination           string `json:"recent_vaccination"`
	VaccinationTime             string `json:"vaccination_time"`
	RecentInfection             string `json:"recent_infection"`
	InfectionTime               string `json:"infection_time"`
	Immunocompromised           string `json:"immunocompromised"`
	ImmunocompromisedReconsider string `json:"immunocompromised_reconsider"`

	Prevalence       string `json:"covid_prevalence"`
	ExposureLocation string `json:"exposure_location"`
}

func (f *ExposureForm) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		switch {
		case len(v) == 0 || bytes.Equal(v, []byte("null")):
			continue
		case v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("form field %q: %w", k, err)
			}
			fields[k] = s
		default:
			var n json.Number
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("form field %q: want string or number, got %s", k, v)
			}
			fields[k] = n.String()
		}
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	type plain ExposureForm
	var out plain
	if err := json.Unmarshal(normalized, &out); err != nil {
		return err
	}
	*f = ExposureForm(out)
	return nil
}

// ExposureParameterSet is the numeric vector handed to the single-exposure engine.
type ExposureParameterSet struct {
	InhalationFilter   float64 `json:"f_i"`
	ExhalationFilter   float64 `json:"f_e"`
	MaskedFraction     float64 `json:"percentage_masked"`
	ActivityMultiplier float64 `json:"activity_multiplier"`
	ExhaledFlowRate    float64 `json:"Q0"`
	DurationSeconds    float64 `json:"duration"`
	DistanceFeet       float64 `json:"distance"`
	Volume             float64 `json:"room_volume"`
	ACH                float64 `json:"ACH"`
	People             int     `json:"N"`
	Susceptibility     float64 `json:"immune"`
	Prevalence         float64 `json:"covid_prevalence"`
}

// RepeatedExposureResult is the cumulative probability after RepetitionCount
// independent exposures at PerExposureRisk each.
type RepeatedExposureResult struct {
	PerExposureRisk float64 `json:"perExposureRisk"`
	RepetitionCount int     `json:"repetitionCount"`
	CumulativeRisk  float64 `json:"cumulativeRisk"`
}
