// internal/calculator/immunity/immunity_test.go
package immunity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/models"
)

func months(v float64) *float64 { return &v }

// ==========================
// Protection Tests
// ==========================

func TestProtection(t *testing.T) {
	tests := []struct {
		name   string
		t      float64
		params models.ProtectionParams
		want   float64
	}{
		{"initial infection", 0, models.InfectionUnvaccinated, 0.85},
		{"initial vaccination", 0, models.VaccinationImmunocompetent, 0.40},
		{"six months infection", 6, models.InfectionUnvaccinated, 0.85 * math.Exp(-0.12*6)},
		{"twelve months still counts", 12, models.VaccinationImmunocompromised, 0.25 * math.Exp(-0.30*12)},
		{"past twelve months", 12.01, models.InfectionVaccinated, 0},
		{"negative months treated as zero", -2, models.InfectionVaccinated, 0.95},
		{"NaN months", math.NaN(), models.InfectionVaccinated, 0},
		{"P0 above one clamps", 0, models.ProtectionParams{P0: 1.5, Lambda: 0.1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Protection(tt.t, tt.params), 1e-12)
		})
	}
}

// ==========================
// Immune Value Tests
// ==========================

func TestImmuneValue(t *testing.T) {
	tests := []struct {
		name      string
		history   models.ImmunityHistory
		want      float64
		wantBasis Basis
	}{
		{
			name:      "no history",
			history:   models.ImmunityHistory{},
			want:      1,
			wantBasis: BasisNone,
		},
		{
			name:      "fresh infection unvaccinated",
			history:   models.ImmunityHistory{InfectionMonths: months(0)},
			want:      0.15,
			wantBasis: BasisInfection,
		},
		{
			name:      "fresh infection vaccinated",
			history:   models.ImmunityHistory{InfectionMonths: months(0), VaccinationMonths: months(3)},
			want:      0.05,
			wantBasis: BasisInfection,
		},
		{
			name:      "infection ignores immunocompromised status",
			history:   models.ImmunityHistory{InfectionMonths: months(0), Immunocompromised: true},
			want:      0.15,
			wantBasis: BasisInfection,
		},
		{
			name:      "vaccination immunocompetent",
			history:   models.ImmunityHistory{VaccinationMonths: months(0)},
			want:      0.60,
			wantBasis: BasisVaccination,
		},
		{
			name:      "vaccination immunocompromised",
			history:   models.ImmunityHistory{VaccinationMonths: months(0), Immunocompromised: true},
			want:      0.75,
			wantBasis: BasisVaccination,
		},
		{
			name:      "vaccination six months",
			history:   models.ImmunityHistory{VaccinationMonths: months(6)},
			want:      1 - 0.40*math.Exp(-0.23*6),
			wantBasis: BasisVaccination,
		},
		{
			name:      "stale infection falls back to vaccination",
			history:   models.ImmunityHistory{InfectionMonths: months(13), VaccinationMonths: months(2)},
			want:      1 - 0.40*math.Exp(-0.23*2),
			wantBasis: BasisVaccination,
		},
		{
			name:      "everything past twelve months",
			history:   models.ImmunityHistory{InfectionMonths: months(14), VaccinationMonths: months(13)},
			want:      1,
			wantBasis: BasisNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assess(tt.history)
			assert.InDelta(t, tt.want, a.Susceptibility, 1e-12)
			assert.Equal(t, tt.wantBasis, a.Basis)
			assert.InDelta(t, tt.want, ImmuneValue(tt.history), 1e-12)
		})
	}
}

func TestImmuneValue_BoundedForAllMonthCombinations(t *testing.T) {
	var all []*float64
	all = append(all, nil)
	for m := 0; m <= 12; m++ {
		all = append(all, months(float64(m)))
	}

	for _, vacc := range all {
		for _, inf := range all {
			for _, ic := range []bool{false, true} {
				v := ImmuneValue(models.ImmunityHistory{VaccinationMonths: vacc, InfectionMonths: inf, Immunocompromised: ic})
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

// ==========================
// Form Parsing Tests
// ==========================

func TestParseMonths(t *testing.T) {
	tests := []struct {
		recent string
		months string
		want   *float64
	}{
		{"Yes", "3", months(3)},
		{"Yes", "0", months(0)},
		{"yes", " 12 ", months(12)},
		{"No", "3", nil},
		{"", "3", nil},
		{"Yes", "13", nil},
		{"Yes", "-1", nil},
		{"Yes", "2.5", nil},
		{"Yes", "abc", nil},
		{"Yes", "", nil},
	}

	for _, tt := range tests {
		got := ParseMonths(tt.recent, tt.months)
		if tt.want == nil {
			assert.Nil(t, got, "%q/%q", tt.recent, tt.months)
			continue
		}
		require.NotNil(t, got, "%q/%q", tt.recent, tt.months)
		assert.Equal(t, *tt.want, *got)
	}
}

func TestResolveImmunocompromised(t *testing.T) {
	tests := []struct {
		status, reconsider string
		want               bool
	}{
		{"Yes", "", true},
		{"Yes", "No", true},
		{"unsure", "Yes", true},
		{"unsure", "No", false},
		{"unsure", "", false},
		{"No", "Yes", false},
		{"", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveImmunocompromised(tt.status, tt.reconsider), "%q/%q", tt.status, tt.reconsider)
	}
}

func TestModel_Susceptibility(t *testing.T) {
	m := NewModel(calculator.NewReporter(logger.NewTestLogger(t)))

	h, a := m.Susceptibility(FormAnswers{
		RecentInfection:   "Yes",
		InfectionTime:     "0",
		RecentVaccination: "No",
	})
	require.NotNil(t, h.InfectionMonths)
	assert.Nil(t, h.VaccinationMonths)
	assert.InDelta(t, 0.15, a.Susceptibility, 1e-12)

	h, a = m.Susceptibility(FormAnswers{
		RecentVaccination:           "Yes",
		VaccinationTime:             "twenty",
		Immunocompromised:           "unsure",
		ImmunocompromisedReconsider: "Yes",
	})
	assert.Nil(t, h.VaccinationMonths)
	assert.True(t, h.Immunocompromised)
	assert.Equal(t, 1.0, a.Susceptibility)
}

// ==========================
// Time Projection Tests
// ==========================

func TestAtTime(t *testing.T) {
	vacc := models.ImmunityHistory{VaccinationMonths: months(3)}
	assert.InDelta(t, ImmuneValue(vacc), AtTime(vacc, 0), 1e-12)
	assert.InDelta(t, 1-0.40*math.Exp(-0.23*(3+60/30.44)), AtTime(vacc, 60), 1e-12)

	inf := models.ImmunityHistory{InfectionMonths: months(6)}
	assert.Less(t, AtTime(inf, 180), 1.0, "6 + 180 days is still inside twelve months")
	assert.Equal(t, 1.0, AtTime(inf, 200))

	// Infection drops out first, leaving the vaccination branch.
	both := models.ImmunityHistory{InfectionMonths: months(11), VaccinationMonths: months(1)}
	assert.InDelta(t, 1-0.40*math.Exp(-0.23*(1+61/30.44)), AtTime(both, 61), 1e-12)
}

func TestDayOffset(t *testing.T) {
	tests := []struct {
		pattern models.ExposurePattern
		want    []int
	}{
		{models.PatternDaily, []int{0, 1, 2, 3, 4, 5, 6}},
		{models.PatternWeekly, []int{0, 7, 14, 21, 28, 35, 42}},
		{models.PatternMonthly, []int{0, 30, 60, 91, 121, 152, 182}},
		{models.PatternWorkday, []int{0, 0, 0, 0, 0, 7, 7}},
	}
	for _, tt := range tests {
		got := make([]int, len(tt.want))
		for i := range got {
			got[i] = DayOffset(i, tt.pattern)
		}
		assert.Equal(t, tt.want, got, string(tt.pattern))
	}
}

func TestSequence(t *testing.T) {
	h := models.ImmunityHistory{InfectionMonths: months(2)}

	assert.Nil(t, Sequence(h, 0, models.PatternDaily))

	seq := Sequence(h, 12, models.PatternMonthly)
	require.Len(t, seq, 12)
	assert.InDelta(t, ImmuneValue(h), seq[0], 1e-12)
	for i := 1; i < len(seq); i++ {
		assert.GreaterOrEqual(t, seq[i], seq[i-1], "protection only wanes")
	}
	assert.Equal(t, 1.0, seq[11], "infection is past twelve months by then")
}

// ==========================
// Legacy Model Tests
// ==========================

func TestLegacyValue(t *testing.T) {
	assert.Equal(t, 1.0, LegacyValue(nil, nil))
	assert.InDelta(t, 0.4763, LegacyValue(months(0), nil), 1e-9)
	assert.InDelta(t, 0.2076, LegacyValue(nil, months(0)), 1e-9)
	assert.InDelta(t, 0.52844288, LegacyValue(months(2), months(5)), 1e-9)
	assert.InDelta(t, 0.308409568, LegacyValue(months(5), months(2)), 1e-9)
	assert.Equal(t, 1.0, LegacyValue(months(40), nil), "clamped")
}

func BenchmarkSequence(b *testing.B) {
	h := models.ImmunityHistory{InfectionMonths: months(1), VaccinationMonths: months(2)}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Sequence(h, 365, models.PatternDaily)
	}
}
