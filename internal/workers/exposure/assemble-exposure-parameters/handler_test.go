// internal/workers/exposure/assemble-exposure-parameters/handler_test.go
package assembleexposureparameters

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-risk-workers/internal/calculator/environment"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/validation"
	"exposure-risk-workers/internal/exposure"
	"exposure-risk-workers/internal/models"
	"exposure-risk-workers/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestValidator(t *testing.T) *validation.SchemaValidator {
	reg, err := registry.LoadRegistry("")
	require.NoError(t, err)
	v := validation.NewSchemaValidator()
	require.NoError(t, reg.RegisterInputSchemas(v))
	return v
}

func createTestHandler(t *testing.T) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(createTestConfig(), exposure.NewAssembler(catalog.Default(), log), createTestValidator(t), log)
}

func decode(t *testing.T, doc string) map[string]interface{} {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &m))
	return m
}

// ==========================
// Validate Tests
// ==========================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"string fields", `{"sessionId": "s1", "form": {"N": "10", "setting": "indoor", "ACH": "6.50"}}`, false},
		{"empty form", `{"form": {}}`, false},
		{"numeric people", `{"form": {"N": 10, "ACH": 6.5, "duration": 3600}}`, false},
		{"array people", `{"form": {"N": [10]}}`, true},
		{"boolean masked", `{"form": {"masked": true}}`, true},
		{"form missing", `{"sessionId": "s1"}`, true},
		{"form not an object", `{"form": "N=10"}`, true},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handler.Validate(decode(t, tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var stdErr *errors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, errors.ErrCodeExposureInputInvalid, stdErr.Code)
			assert.NotEmpty(t, stdErr.Details)
		})
	}
}

func TestValidate_WithoutValidator(t *testing.T) {
	handler := NewHandler(createTestConfig(), exposure.NewAssembler(catalog.Default(), logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())
	assert.NoError(t, handler.Validate(decode(t, `{"form": {"N": 10}}`)))
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_Classroom(t *testing.T) {
	handler := createTestHandler(t)

	out, err := handler.Execute(context.Background(), &Input{
		SessionID: "s1",
		Form: models.ExposureForm{
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
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "s1", out.SessionID)
	assert.Equal(t, 0.06, out.Parameters.InhalationFilter)
	assert.Equal(t, 0.78, out.Parameters.ExhaledFlowRate)
	assert.Equal(t, 500.0, out.Parameters.Volume)
	assert.Equal(t, 10, out.Parameters.People)
	assert.Equal(t, 0.6, out.Parameters.Susceptibility)
	assert.Equal(t, 0.01, out.Parameters.Prevalence)
	assert.Equal(t, environment.SourceCatalog, out.VolumeSource)
	assert.Equal(t, exposure.PrevalenceFromDefault, out.PrevalenceSource)
	assert.Empty(t, out.Warnings)
}

func TestExecute_WarningsPassThrough(t *testing.T) {
	handler := createTestHandler(t)

	out, err := handler.Execute(context.Background(), &Input{Form: models.ExposureForm{People: "a crowd", ACH: "6.50"}})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Parameters.People)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "N")
}

func TestExecute_CancelledContext(t *testing.T) {
	handler := createTestHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Execute(ctx, &Input{Form: models.ExposureForm{}})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecute_NumericFormMatchesStringForm(t *testing.T) {
	handler := createTestHandler(t)

	run := func(doc string) *Output {
		require.NoError(t, handler.Validate(decode(t, doc)))
		var input Input
		require.NoError(t, json.Unmarshal([]byte(doc), &input))
		out, err := handler.Execute(context.Background(), &input)
		require.NoError(t, err)
		return out
	}

	numeric := run(`{"form": {"setting": "indoor", "ACH": 6.50, "N": 10, "duration": 3600, "distance": 6}}`)
	text := run(`{"form": {"setting": "indoor", "ACH": "6.50", "N": "10", "duration": "3600", "distance": "6"}}`)

	assert.Equal(t, text.Parameters, numeric.Parameters)
	assert.Equal(t, 10, numeric.Parameters.People)
	assert.Empty(t, numeric.Warnings)
}

func TestOutput_FlattensAssembly(t *testing.T) {
	data, err := json.Marshal(Output{SessionID: "s1", Assembly: exposure.Assembly{PrevalenceSource: "form"}})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "parameters")
	assert.Equal(t, "form", doc["prevalenceSource"])
	assert.Equal(t, "s1", doc["sessionId"])
}

func BenchmarkExecute(b *testing.B) {
	handler := NewHandler(createTestConfig(), exposure.NewAssembler(catalog.Default(), logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())
	input := &Input{Form: models.ExposureForm{Setting: "indoor", ACH: "6.50", People: "10", Duration: "3600"}}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.Execute(ctx, input)
	}
}
