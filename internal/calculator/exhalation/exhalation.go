// internal/calculator/exhalation/exhalation.go

// Package exhalation maps physical and vocal activity to the exhaled
// aerosol flow rate Q0.
package exhalation

import (
	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/catalog"
)

// BaselineFlowRate is Q0 for a person sitting and breathing quietly.
const BaselineFlowRate = 0.08

// Physical activity keys, from least to most intense.
const (
	Sitting  = "sitting"
	Standing = "standing"
	Light    = "light"
	Moderate = "moderate"
	Heavy    = "heavy"
)

// Vocal activity keys, from quietest to loudest.
const (
	Breathing      = "breathing"
	Speaking       = "speaking"
	LoudlySpeaking = "loudly_speaking"
)

var (
	physicalLevels = []string{Sitting, Standing, Light, Moderate, Heavy}
	vocalLevels    = []string{Breathing, Speaking, LoudlySpeaking}
)

// PhysicalFromIndex maps a slider position to a physical activity key,
// clamping out-of-range positions to the nearest end.
func PhysicalFromIndex(i int) string {
	return physicalLevels[clampIndex(i, len(physicalLevels))]
}

// VocalFromIndex maps a slider position to a vocal activity key.
func VocalFromIndex(i int) string {
	return vocalLevels[clampIndex(i, len(vocalLevels))]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Multiplier looks up the combined activity multiplier. A missing physical
// or vocal key yields 1.
func Multiplier(table catalog.ActivityTable, physical, vocal string) (float64, calculator.Fallback) {
	row, ok := table[physical]
	if !ok {
		return 1, calculator.UnknownActivity
	}
	m, ok := row[vocal]
	if !ok {
		return 1, calculator.UnknownActivity
	}
	return m, calculator.None
}

// FlowRate returns Q0 = 0.08 × multiplier.
func FlowRate(multiplier float64) float64 {
	return BaselineFlowRate * multiplier
}

// Model binds Multiplier to a catalog.
type Model struct {
	catalog  *catalog.Catalog
	reporter *calculator.Reporter
}

const Component = "exhalation_flow"

func NewModel(cat *catalog.Catalog, reporter *calculator.Reporter) *Model {
	return &Model{catalog: cat, reporter: reporter}
}

// Resolve returns the multiplier and Q0 for the given activity keys. The
// catalog's baseline flow rate is used in place of the package constant.
func (m *Model) Resolve(physical, vocal string) (multiplier, q0 float64) {
	multiplier, fb := Multiplier(m.catalog.Activities.Multipliers, physical, vocal)
	m.reporter.Report(Component, fb, map[string]interface{}{
		"physical": physical,
		"vocal":    vocal,
	})
	return multiplier, m.catalog.BaselineFlowRate * multiplier
}

// BreathingRate returns the inhalation rate in m³/h for a physical activity
// and whether the activity was known.
func (m *Model) BreathingRate(physical string) (float64, bool) {
	rate, ok := m.catalog.Activities.BreathingRates[physical]
	return rate, ok
}
