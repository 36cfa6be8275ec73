// internal/models/models_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// LooseFloat Tests
// ==========================

func TestLooseFloat_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantValue float64
		wantValid bool
	}{
		{"number", `{"v": 0.25}`, 0.25, true},
		{"numeric string", `{"v": " 0.5 "}`, 0.5, true},
		{"exponent", `{"v": 1e-3}`, 0.001, true},
		{"text", `{"v": "abc"}`, 0, false},
		{"empty string", `{"v": ""}`, 0, false},
		{"null", `{"v": null}`, 0, false},
		{"bool", `{"v": true}`, 0, false},
		{"nan string", `{"v": "NaN"}`, 0, false},
		{"object", `{"v": {"x": 1}}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				V LooseFloat `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.json), &doc))
			assert.Equal(t, tt.wantValid, doc.V.Valid)
			assert.Equal(t, tt.wantValue, doc.V.Value)
		})
	}
}

func TestLooseFloat_Missing(t *testing.T) {
	var doc struct {
		V LooseFloat `json:"v"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &doc))
	assert.False(t, doc.V.Valid)
}

func TestLooseFloat_Marshal(t *testing.T) {
	out, err := json.Marshal(map[string]LooseFloat{"a": Float(0.125), "b": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 0.125, "b": null}`, string(out))
}

// ==========================
// Prevalence Helpers Tests
// ==========================

// ==========================
// ExposureForm Tests
// ==========================

func TestExposureForm_AcceptsNumbers(t *testing.T) {
	var f ExposureForm
	require.NoError(t, json.Unmarshal([]byte(`{"N": 3, "ACH": 6.50, "duration": "3600", "setting": "indoor", "distance": null}`), &f))

	assert.Equal(t, "3", f.People)
	assert.Equal(t, "6.50", f.ACH)
	assert.Equal(t, "3600", f.Duration)
	assert.Equal(t, "indoor", f.Setting)
	assert.Empty(t, f.Distance)
}

func TestExposureForm_RejectsNonScalar(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"array", `{"N": [3]}`},
		{"object", `{"setting": {"kind": "indoor"}}`},
		{"bool", `{"masked": true}`},
		{"not an object", `["N", 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f ExposureForm
			assert.Error(t, json.Unmarshal([]byte(tt.json), &f))
		})
	}
}

func TestNormalizeWeek(t *testing.T) {
	tests := map[int]int{1: 1, 52: 52, 53: 1, 104: 52, 0: 52, -1: 51}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeWeek(in), "week %d", in)
	}
}

func TestRegionForState(t *testing.T) {
	assert.Equal(t, RegionSouth, RegionForState("tx"))
	assert.Equal(t, RegionWest, RegionForState("WA"))
	assert.Equal(t, RegionNational, RegionForState("ZZ"))
	assert.True(t, IsRegion("Midwest"))
	assert.False(t, IsRegion("midwest"))
}

// ==========================
// Mask Helpers Tests
// ==========================

func TestParseFitQuality(t *testing.T) {
	fq, ok := ParseFitQuality(" snug ")
	assert.True(t, ok)
	assert.Equal(t, FitSnug, fq)

	_, ok = ParseFitQuality("tight")
	assert.False(t, ok)
}

func TestPatternForExposures(t *testing.T) {
	assert.Equal(t, PatternMonthly, PatternForExposures(12))
	assert.Equal(t, PatternWeekly, PatternForExposures(52))
	assert.Equal(t, PatternWorkday, PatternForExposures(250))
	assert.Equal(t, PatternDaily, PatternForExposures(30))
}
