// internal/catalog/catalog_test.go
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-risk-workers/internal/models"
)

// ==========================
// Embedded Catalog Tests
// ==========================

func TestDefault_Masks(t *testing.T) {
	cat := Default()

	n95, ok := cat.Mask("N95")
	require.True(t, ok)
	assert.Equal(t, 0.12, n95.FValue)

	fi, ok := cat.FiTable.Lookup("N95", models.FitAverage)
	require.True(t, ok)
	assert.Equal(t, 0.12, fi)

	_, ok = cat.FiTable.Lookup("cloth", models.FitQualitative)
	assert.False(t, ok, "cloth has no qualitative fit")
	_, ok = cat.FiTable.Lookup("surgical", models.FitQualitative)
	assert.False(t, ok, "surgical has no qualitative fit")

	assert.Equal(t, []string{"elastomeric", "n95", "kn95", "surgical", "cloth"}, cat.MaskIDs())
}

func TestDefault_Activities(t *testing.T) {
	cat := Default()
	assert.Equal(t, 0.08, cat.BaselineFlowRate)
	assert.Len(t, cat.Activities.Physical, 5)
	assert.Len(t, cat.Activities.Vocal, 3)
	assert.Equal(t, 1.0, cat.Activities.Multipliers["sitting"]["breathing"])
	assert.Equal(t, 3.28, cat.Activities.BreathingRates["heavy"])
}

func TestDefault_Environments(t *testing.T) {
	cat := Default()

	for _, name := range []string{"home", "office", "worship", "transit"} {
		g, ok := cat.Group(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, g.Options)
	}

	tests := []struct {
		key        string
		wantVolume float64
		wantFound  bool
	}{
		{"6.50", 500, true},
		{"6.5", 500, true},
		{"2.5", 800, true},
		{"0.30", 100, true},
		{"54", 50, true},
		{"99", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			o, ok := cat.FindByACH(tt.key)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.wantVolume, o.Volume)
		})
	}
}

func TestTypedVolumes(t *testing.T) {
	cat := Default()

	assert.True(t, cat.Vehicle.HasACH("6.5"))
	assert.True(t, cat.Vehicle.HasACH("6.50"))
	assert.True(t, cat.Vehicle.HasACH("74"))
	assert.False(t, cat.Vehicle.HasACH("15.00"))
	assert.True(t, cat.Aircraft.HasACH("15"))
	assert.True(t, cat.Aircraft.HasACH("0.50"))

	v, ok := cat.Vehicle.VolumeFor("SUV")
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	v, ok = cat.Vehicle.VolumeFor("tank")
	assert.False(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = cat.Aircraft.VolumeFor("very_large")
	assert.True(t, ok)
	assert.Equal(t, 388.0, v)

	v, ok = cat.Aircraft.VolumeFor("")
	assert.False(t, ok)
	assert.Equal(t, 150.0, v)

	assert.Equal(t, 1600.0, cat.Outdoor.ACH)
	assert.Equal(t, 2.0, cat.Outdoor.SlabHeight)
}

// ==========================
// Load / Validation Tests
// ==========================

func TestLoad_EmptyPathUsesEmbedded(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Version)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, defaultDocument, 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cat.Masks, 5)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not yaml", "masks: [", "decode catalog"},
		{"no baseline", "masks: []", "baseline_flow_rate"},
		{"no masks", "baseline_flow_rate: 0.08", "no masks"},
		{
			name: "f_value out of range",
			doc: `
baseline_flow_rate: 0.08
masks:
  - {id: x, label: X, f_value: 1.5}
`,
			wantErr: "outside [0,1]",
		},
		{
			name: "penetration out of range",
			doc: `
baseline_flow_rate: 0.08
masks:
  - id: x
    label: X
    f_value: 0.5
    fit: {Average: 2}
`,
			wantErr: "penetration",
		},
		{
			name: "unknown fit",
			doc: `
baseline_flow_rate: 0.08
masks:
  - id: x
    label: X
    f_value: 0.5
    fit: {Tight: 0.1}
`,
			wantErr: "unknown fit quality",
		},
		{
			name: "non positive ach",
			doc: `
baseline_flow_rate: 0.08
masks:
  - {id: x, label: X, f_value: 0.5}
environments:
  - name: home
    options:
      - {ach: "zero", label: Bad, volume: 10}
`,
			wantErr: "must be a positive number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
