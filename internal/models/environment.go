// internal/models/environment.go
package models

// Setting selects which branch of environment resolution applies.
type Setting string

const (
	SettingIndoor   Setting = "indoor"
	SettingOutdoor  Setting = "outdoor"
	SettingVehicle  Setting = "vehicle"
	SettingAircraft Setting = "aircraft"
)

// VolumeRange is the plausible span of volumes for an environment option.
type VolumeRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// EnvironmentOption pairs an air-exchange key with a volume in m³.
type EnvironmentOption struct {
	ACHKey string       `json:"achKey" yaml:"ach"`
	Label  string       `json:"label" yaml:"label"`
	Volume float64      `json:"volume" yaml:"volume"`
	Range  *VolumeRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// EnvironmentGroup is a named list of options shown together, e.g. "home".
type EnvironmentGroup struct {
	Name    string              `json:"name" yaml:"name"`
	Options []EnvironmentOption `json:"options" yaml:"options"`
}
