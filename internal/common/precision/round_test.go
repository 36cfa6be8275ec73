// internal/common/precision/round_test.go
package precision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int32
		want   float64
	}{
		{"half rounds up", 0.1245, 3, 0.125},
		{"half away from zero negative", -0.1245, 3, -0.125},
		{"below half", 0.12449, 3, 0.124},
		{"two places", 0.08 * 4.47, 2, 0.36},
		{"four places", 1 - 0.85, 4, 0.15},
		{"already exact", 0.12, 3, 0.12},
		{"zero", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.value, tt.places))
		})
	}
}

func TestRound_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(Round(math.NaN(), 3)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 3), 1))
}

func TestNamedRounders(t *testing.T) {
	assert.Equal(t, 0.333, Filtration(1.0/3.0))
	assert.Equal(t, 0.72, FlowRate(0.08*8.94))
	assert.Equal(t, 0.2764, Susceptibility(0.276351))
}
