// internal/common/validation/validation_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var formSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"masked":   map[string]interface{}{"type": "string", "enum": []interface{}{"Yes", "No", ""}},
		"people":   map[string]interface{}{"type": "string"},
		"duration": map[string]interface{}{"type": "string"},
	},
	"required":             []interface{}{"people"},
	"additionalProperties": true,
}

// ==========================
// Schema Validation Tests
// ==========================

func TestSchemaValidator_Validate(t *testing.T) {
	v := NewSchemaValidator()
	require.NoError(t, v.Register("form", formSchema))
	assert.True(t, v.Has("form"))

	tests := []struct {
		name      string
		doc       map[string]interface{}
		wantValid bool
		wantField string
		wantCode  string
	}{
		{
			name:      "valid strings",
			doc:       map[string]interface{}{"masked": "Yes", "people": "10", "duration": "3600"},
			wantValid: true,
		},
		{
			name:      "number instead of string",
			doc:       map[string]interface{}{"people": 10.0},
			wantField: "people",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "required missing",
			doc:       map[string]interface{}{"masked": "No"},
			wantField: "people",
			wantCode:  "REQUIRED",
		},
		{
			name:      "enum violation",
			doc:       map[string]interface{}{"masked": "maybe", "people": "3"},
			wantField: "masked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Validate("form", tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.True(t, result.HasErrors(tt.wantField), result.GetErrorMessages())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, result.GetErrorsForField(tt.wantField)[0].Code)
			}
		})
	}
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	_, err := NewSchemaValidator().Validate("missing", map[string]interface{}{})
	assert.Error(t, err)
}

func TestSchemaValidator_RegisterInvalidSchema(t *testing.T) {
	err := NewSchemaValidator().Register("broken", map[string]interface{}{"type": 42})
	assert.Error(t, err)
}

func TestValidateInput(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{"people": "4"}, formSchema)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestGetSchemaFromJSON(t *testing.T) {
	schema, err := GetSchemaFromJSON(`{"type":"object","required":["a"]}`)
	require.NoError(t, err)
	assert.Equal(t, "object", schema["type"])

	_, err = GetSchemaFromJSON(`{`)
	assert.Error(t, err)
}

// ==========================
// Safe Parse Tests
// ==========================

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		input   string
		def     float64
		want    float64
		wantMsg string
	}{
		{"", 5, 5, ""},
		{"   ", 5, 5, ""},
		{"2.5", 0, 2.5, ""},
		{" 6.50 ", 0, 6.5, ""},
		{"-1", 0, -1, ""},
		{"abc", 3, 3, `invalid float: "abc"`},
		{"NaN", 1, 1, `invalid float: "NaN"`},
		{"Inf", 1, 1, `invalid float: "Inf"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, msg := SafeFloat(tt.input, tt.def)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestSafeInt(t *testing.T) {
	tests := []struct {
		input   string
		def     int
		want    int
		wantMsg string
	}{
		{"", 1, 1, ""},
		{"12", 0, 12, ""},
		{" 7 ", 0, 7, ""},
		{"1.5", 2, 2, `invalid int: "1.5"`},
		{"ten", 2, 2, `invalid int: "ten"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, msg := SafeInt(tt.input, tt.def)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestIsYes(t *testing.T) {
	assert.True(t, IsYes("Yes"))
	assert.True(t, IsYes(" yes "))
	assert.False(t, IsYes("No"))
	assert.False(t, IsYes(""))
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "Yes", "on", " 1 "} {
		assert.True(t, IsTruthy(v), v)
	}
	for _, v := range []string{"", "false", "no", "0", "maybe"} {
		assert.False(t, IsTruthy(v), v)
	}
}
