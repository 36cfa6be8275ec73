// internal/calculator/environment/environment.go

// Package environment resolves the air volume and air changes per hour
// of the space where an exposure happens.
package environment

import (
	"math"
	"strconv"
	"strings"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/models"
)

const feetToMeters = 0.3048

// Source records which resolution step produced a volume or ACH.
type Source string

const (
	SourceCustom     Source = "custom"
	SourceOutdoor    Source = "outdoor"
	SourceVehicle    Source = "vehicle"
	SourceAircraft   Source = "aircraft"
	SourceCatalog    Source = "catalog"
	SourceSelected   Source = "selected"
	SourceUnresolved Source = "unresolved"
)

// ParseSetting maps a form value onto a Setting. Anything unrecognised,
// including the empty string, is indoor.
func ParseSetting(s string) models.Setting {
	switch models.Setting(strings.ToLower(strings.TrimSpace(s))) {
	case models.SettingOutdoor:
		return models.SettingOutdoor
	case models.SettingVehicle:
		return models.SettingVehicle
	case models.SettingAircraft:
		return models.SettingAircraft
	default:
		return models.SettingIndoor
	}
}

// VolumeInput carries everything Volume reads. Overrides are raw strings
// because they come straight from the form.
type VolumeInput struct {
	Setting      models.Setting
	Advanced     bool
	RoomVolume   string
	DistanceFeet float64
	ACHKey       string
	VehicleType  string
	AircraftSize string
}

// Volume resolves the air volume in m³. Steps are tried in order and the
// first that yields a value wins:
//  1. advanced-mode override when it parses to a positive number
//  2. outdoors, (distance in m)² × slab height
//  3. vehicle ACH key, volume by vehicle type
//  4. aircraft ACH key, volume by aircraft size
//  5. generic catalog entry paired with the ACH key
//
// Otherwise 0 signals an unresolved volume.
func Volume(in VolumeInput, cat *catalog.Catalog) (float64, Source, calculator.Fallback) {
	if in.Advanced {
		if v, ok := parsePositive(in.RoomVolume); ok {
			return v, SourceCustom, calculator.None
		}
	}

	if in.Setting == models.SettingOutdoor {
		if math.IsNaN(in.DistanceFeet) || in.DistanceFeet <= 0 {
			return 0, SourceUnresolved, calculator.VolumeUnresolved
		}
		return OutdoorVolume(in.DistanceFeet, cat.Outdoor.SlabHeight), SourceOutdoor, calculator.None
	}

	if in.Setting == models.SettingVehicle && cat.Vehicle.HasACH(in.ACHKey) {
		v, known := cat.Vehicle.VolumeFor(in.VehicleType)
		if !known {
			return v, SourceVehicle, calculator.UnknownVehicleType
		}
		return v, SourceVehicle, calculator.None
	}

	if in.Setting == models.SettingAircraft && cat.Aircraft.HasACH(in.ACHKey) {
		v, known := cat.Aircraft.VolumeFor(in.AircraftSize)
		if !known {
			return v, SourceAircraft, calculator.UnknownAircraftSize
		}
		return v, SourceAircraft, calculator.None
	}

	if o, ok := cat.FindByACH(in.ACHKey); ok {
		return o.Volume, SourceCatalog, calculator.None
	}

	return 0, SourceUnresolved, calculator.VolumeUnresolved
}

// ACHInput carries everything ACH reads.
type ACHInput struct {
	Setting   models.Setting
	Advanced  bool
	CustomACH string
	ACHKey    string
}

// ACH resolves air changes per hour: an advanced-mode override when
// positive, the outdoor constant outdoors, otherwise the selected key
// parsed as a number. Unparsable or non-positive keys yield 0.
func ACH(in ACHInput, cat *catalog.Catalog) (float64, Source, calculator.Fallback) {
	if in.Advanced {
		if v, ok := parsePositive(in.CustomACH); ok {
			return v, SourceCustom, calculator.None
		}
	}

	if in.Setting == models.SettingOutdoor {
		return cat.Outdoor.ACH, SourceOutdoor, calculator.None
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(in.ACHKey), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, SourceUnresolved, calculator.ACHUnparsable
	}
	if v <= 0 {
		return 0, SourceUnresolved, calculator.InvalidInput
	}
	return v, SourceSelected, calculator.None
}

// OutdoorVolume is the air column used outdoors for a given distance in feet.
func OutdoorVolume(distanceFeet, slabHeight float64) float64 {
	meters := distanceFeet * feetToMeters
	return meters * meters * slabHeight
}

func parsePositive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
