// internal/exposure/exposure_test.go
package exposure

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-risk-workers/internal/calculator/environment"
	"exposure-risk-workers/internal/calculator/exhalation"
	"exposure-risk-workers/internal/calculator/immunity"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/models"
	"exposure-risk-workers/internal/prevalence"
)

// ==========================
// Test Helper Functions
// ==========================

type prevalenceFunc func(ctx context.Context, location string, week int) (prevalence.Result, error)

func (f prevalenceFunc) Lookup(ctx context.Context, location string, week int) (prevalence.Result, error) {
	return f(ctx, location, week)
}

func classroomForm() models.ExposureForm {
	return models.ExposureForm{
		Masked:                 "Yes",
		MaskType:               "N95",
		FitQuality:             "Snug",
		PercentMasked:          "50",
		OthersMaskType:         "surgical",
		PhysicalIntensityIndex: "2",
		VocalizationIndex:      "1",
		People:                 "10",
		Duration:               "3600",
		Distance:               "6",
		Setting:                "indoor",
		ACH:                    "6.50",
		RecentVaccination:      "Yes",
		VaccinationTime:        "0",
		ExposureLocation:       "TX",
	}
}

// ==========================
// ParseForm Tests
// ==========================

func TestParseForm_Defaults(t *testing.T) {
	p := ParseForm(models.ExposureForm{})

	assert.False(t, p.Masked)
	assert.Equal(t, models.FitQuality(""), p.Fit)
	assert.Equal(t, exhalation.Standing, p.Physical)
	assert.Equal(t, exhalation.Speaking, p.Vocal)
	assert.Equal(t, 1, p.People)
	assert.Zero(t, p.DurationSeconds)
	assert.Zero(t, p.DistanceFeet)
	assert.Equal(t, models.SettingIndoor, p.Volume.Setting)
	assert.Nil(t, p.PrevalenceOverride)
	assert.Empty(t, p.Warnings)
}

func TestParseForm_Warnings(t *testing.T) {
	p := ParseForm(models.ExposureForm{
		FitQuality:             "tight",
		FitFactor:              "high",
		People:                 "0",
		Duration:               "-30",
		Distance:               "six",
		PhysicalIntensityIndex: "9",
		Advanced:               "true",
		Prevalence:             "lots",
	})

	assert.Equal(t, exhalation.Heavy, p.Physical, "index clamps to the top level")
	assert.Equal(t, 1, p.People)
	assert.Zero(t, p.DurationSeconds)
	assert.Zero(t, p.DistanceFeet)
	assert.Nil(t, p.PrevalenceOverride)

	fields := make([]string, 0, len(p.Warnings))
	for _, w := range p.Warnings {
		fields = append(fields, w[:indexColon(w)])
	}
	assert.ElementsMatch(t, []string{"fit_quality", "fit_factor", "N", "duration", "distance", "covid_prevalence"}, fields)
}

func indexColon(s string) int {
	for i, r := range s {
		if r == ':' {
			return i
		}
	}
	return len(s)
}

func TestParseForm_PrevalenceOverride(t *testing.T) {
	tests := []struct {
		name     string
		advanced string
		value    string
		want     *float64
	}{
		{"plain percent", "true", "1.5", ptr(0.015)},
		{"percent sign", "true", " 2% ", ptr(0.02)},
		{"clamped", "true", "250", ptr(1)},
		{"ignored outside advanced mode", "", "2", nil},
		{"empty", "true", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseForm(models.ExposureForm{Advanced: tt.advanced, Prevalence: tt.value})
			if tt.want == nil {
				assert.Nil(t, p.PrevalenceOverride)
				return
			}
			require.NotNil(t, p.PrevalenceOverride)
			assert.InDelta(t, *tt.want, *p.PrevalenceOverride, 1e-12)
		})
	}
}

func ptr(v float64) *float64 { return &v }

// ==========================
// Assembler Tests
// ==========================

func TestAssemble_Classroom(t *testing.T) {
	a := NewAssembler(catalog.Default(), logger.NewTestLogger(t))

	got, err := a.Assemble(context.Background(), classroomForm())
	require.NoError(t, err)

	want := models.ExposureParameterSet{
		InhalationFilter:   0.06,
		ExhalationFilter:   0.5,
		MaskedFraction:     0.5,
		ActivityMultiplier: 9.73,
		ExhaledFlowRate:    0.78,
		DurationSeconds:    3600,
		DistanceFeet:       6,
		Volume:             500,
		ACH:                6.5,
		People:             10,
		Susceptibility:     0.6,
		Prevalence:         0.01,
	}
	assert.Equal(t, want, got.Parameters)
	assert.Equal(t, environment.SourceCatalog, got.VolumeSource)
	assert.Equal(t, environment.SourceSelected, got.ACHSource)
	assert.Equal(t, immunity.BasisVaccination, got.ImmunityBasis)
	assert.Equal(t, PrevalenceFromDefault, got.PrevalenceSource)
	assert.Empty(t, got.Warnings)
}

func TestAssemble_OutdoorWithFormPrevalence(t *testing.T) {
	form := models.ExposureForm{
		Setting:    "outdoor",
		Distance:   "10",
		Advanced:   "true",
		Prevalence: "3%",
	}
	called := false
	a := NewAssembler(catalog.Default(), logger.NewTestLogger(t)).
		WithPrevalence(prevalenceFunc(func(context.Context, string, int) (prevalence.Result, error) {
			called = true
			return prevalence.Result{}, nil
		}), 0.01, 0)

	got, err := a.Assemble(context.Background(), form)
	require.NoError(t, err)

	assert.False(t, called, "a form override skips the lookup")
	assert.InDelta(t, 0.03, got.Parameters.Prevalence, 1e-12)
	assert.Equal(t, PrevalenceFromForm, got.PrevalenceSource)
	assert.Equal(t, environment.SourceOutdoor, got.VolumeSource)
	assert.InDelta(t, environment.OutdoorVolume(10, 2), got.Parameters.Volume, 1e-9)
	assert.Equal(t, 1600.0, got.Parameters.ACH)
	assert.Equal(t, 1.0, got.Parameters.InhalationFilter)
	assert.Equal(t, 1.0, got.Parameters.ExhalationFilter)
	assert.Equal(t, 1.0, got.Parameters.Susceptibility)
}

func TestAssemble_LooksUpPrevalence(t *testing.T) {
	var gotLocation string
	var gotWeek int
	src := prevalenceFunc(func(_ context.Context, location string, week int) (prevalence.Result, error) {
		gotLocation, gotWeek = location, week
		return prevalence.Result{
			Region:     "South",
			Week:       week,
			Prevalence: 0.024,
			Source:     prevalence.SourceDatabase,
		}, nil
	})
	a := NewAssembler(catalog.Default(), logger.NewTestLogger(t)).WithPrevalence(src, 0.01, 30)

	got, err := a.Assemble(context.Background(), classroomForm())
	require.NoError(t, err)

	assert.Equal(t, "TX", gotLocation)
	assert.Equal(t, 30, gotWeek)
	assert.Equal(t, 0.024, got.Parameters.Prevalence)
	assert.Equal(t, "South", got.Region)
	assert.Equal(t, prevalence.SourceDatabase, got.PrevalenceSource)
}

func TestAssemble_LookupFailureUsesDefault(t *testing.T) {
	src := prevalenceFunc(func(context.Context, string, int) (prevalence.Result, error) {
		return prevalence.Result{}, stderrors.New("db down")
	})
	a := NewAssembler(catalog.Default(), logger.NewTestLogger(t)).WithPrevalence(src, 0.02, 0)

	got, err := a.Assemble(context.Background(), classroomForm())
	require.NoError(t, err)

	assert.Equal(t, 0.02, got.Parameters.Prevalence)
	assert.Equal(t, PrevalenceFromDefault, got.PrevalenceSource)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "db down")
}

func TestAssemble_AdvisoryBecomesWarning(t *testing.T) {
	src := prevalenceFunc(func(context.Context, string, int) (prevalence.Result, error) {
		return prevalence.Result{Prevalence: 0.01, Source: prevalence.SourceDefault, Advisory: "PREVALENCE_NOT_FOUND: region: National, week: 22"}, nil
	})
	a := NewAssembler(catalog.Default(), logger.NewTestLogger(t)).WithPrevalence(src, 0, 0)

	got, err := a.Assemble(context.Background(), models.ExposureForm{})
	require.NoError(t, err)
	assert.Equal(t, []string{"PREVALENCE_NOT_FOUND: region: National, week: 22"}, got.Warnings)
}

func TestAssemble_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAssembler(catalog.Default(), logger.NewNoOpLogger())
	_, err := a.Assemble(ctx, classroomForm())
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkAssemble(b *testing.B) {
	a := NewAssembler(catalog.Default(), logger.NewNoOpLogger())
	form := classroomForm()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = a.Assemble(ctx, form)
	}
}
