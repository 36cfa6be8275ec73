// internal/workers/exposure/resolve-environment/models.go
package resolveenvironment

import "exposure-risk-workers/internal/calculator/environment"

type Input struct {
	Setting      string `json:"setting"`
	ACH          string `json:"ACH"`
	CarType      string `json:"car_type"`
	AirplaneType string `json:"airplane_type"`
	Advanced     string `json:"advanced"`
	CustomACH    string `json:"custom_ACH"`
	RoomVolume   string `json:"room_volume"`
	Distance     string `json:"distance"`
}

type Output struct {
	Setting      string             `json:"setting"`
	Volume       float64            `json:"room_volume"` // m³
	ACH          float64            `json:"ACH"`
	VolumeSource environment.Source `json:"volumeSource"`
	ACHSource    environment.Source `json:"achSource"`
	Warnings     []string           `json:"warnings,omitempty"`
}
