// internal/calculator/immunity/immunity.go

// Package immunity models how prior infection and vaccination reduce
// susceptibility, with protection waning exponentially over twelve months.
package immunity

import (
	"math"
	"strconv"
	"strings"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/common/validation"
	"exposure-risk-workers/internal/models"
)

const (
	// MaxMonths is the horizon after which prior immunity is ignored.
	MaxMonths = 12.0
	// DaysPerMonth converts calendar days into months.
	DaysPerMonth = 30.44
)

// Basis names the history that determined a susceptibility value.
type Basis string

const (
	BasisInfection   Basis = "infection"
	BasisVaccination Basis = "vaccination"
	BasisNone        Basis = "none"
)

// Protection returns clamp(P0·e^(−λt)) for t months, and exactly 0 once t
// exceeds twelve months. Negative t counts as 0.
func Protection(t float64, p models.ProtectionParams) float64 {
	if math.IsNaN(t) || t > MaxMonths {
		return 0
	}
	if t < 0 {
		t = 0
	}
	return calculator.Clamp01(p.P0 * math.Exp(-p.Lambda*t))
}

// Assessment explains a susceptibility value.
type Assessment struct {
	Susceptibility float64                 `json:"susceptibility"`
	Protection     float64                 `json:"protection"`
	Basis          Basis                   `json:"basis"`
	Params         models.ProtectionParams `json:"params"`
}

// Assess applies the precedence rules. Infection history wins and picks its
// parameters by vaccination status only; immunocompromised status is not
// consulted on that branch. Vaccination-only history picks parameters by
// immunocompromised status. No history means full susceptibility.
func Assess(h models.ImmunityHistory) Assessment {
	vaccinated := validMonths(h.VaccinationMonths)

	if validMonths(h.InfectionMonths) {
		params := models.InfectionUnvaccinated
		if vaccinated {
			params = models.InfectionVaccinated
		}
		p := Protection(*h.InfectionMonths, params)
		return Assessment{Susceptibility: 1 - p, Protection: p, Basis: BasisInfection, Params: params}
	}

	if vaccinated {
		params := models.VaccinationImmunocompetent
		if h.Immunocompromised {
			params = models.VaccinationImmunocompromised
		}
		p := Protection(*h.VaccinationMonths, params)
		return Assessment{Susceptibility: 1 - p, Protection: p, Basis: BasisVaccination, Params: params}
	}

	return Assessment{Susceptibility: 1, Basis: BasisNone}
}

// ImmuneValue returns the susceptibility factor in [0,1].
func ImmuneValue(h models.ImmunityHistory) float64 {
	return Assess(h).Susceptibility
}

func validMonths(m *float64) bool {
	return m != nil && !math.IsNaN(*m) && *m >= 0 && *m <= MaxMonths
}

// ResolveImmunocompromised applies the three-state answer: "Yes" is true,
// "unsure" followed by a reconsidered "Yes" is true, anything else false.
func ResolveImmunocompromised(status, reconsider string) bool {
	if validation.IsYes(status) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(status), "unsure") && validation.IsYes(reconsider)
}

// ParseMonths returns the month count when recent is "Yes" and months is an
// integer in 0..12. Otherwise it returns nil.
func ParseMonths(recent, months string) *float64 {
	m, _ := parseMonths(recent, months)
	return m
}

func parseMonths(recent, months string) (*float64, calculator.Fallback) {
	if !validation.IsYes(recent) {
		return nil, calculator.None
	}
	n, err := strconv.Atoi(strings.TrimSpace(months))
	if err != nil || n < 0 || float64(n) > MaxMonths {
		return nil, calculator.InvalidInput
	}
	v := float64(n)
	return &v, calculator.None
}

// AtTime evaluates susceptibility daysFromNow days in the future. Each
// history ages by days/30.44 months and is dropped once past twelve.
func AtTime(h models.ImmunityHistory, daysFromNow int) float64 {
	shift := float64(daysFromNow) / DaysPerMonth
	return ImmuneValue(models.ImmunityHistory{
		VaccinationMonths: age(h.VaccinationMonths, shift),
		InfectionMonths:   age(h.InfectionMonths, shift),
		Immunocompromised: h.Immunocompromised,
	})
}

func age(m *float64, shift float64) *float64 {
	if m == nil {
		return nil
	}
	v := *m + shift
	if v > MaxMonths {
		return nil
	}
	return &v
}

// DayOffset is the number of calendar days between the first exposure and
// exposure i under pattern.
func DayOffset(i int, pattern models.ExposurePattern) int {
	switch pattern {
	case models.PatternWeekly:
		return i * 7
	case models.PatternMonthly:
		return int(float64(i) * DaysPerMonth)
	case models.PatternWorkday:
		return (i / 5) * 7
	default:
		return i
	}
}

// Sequence returns the susceptibility at each of n exposures spaced by pattern.
func Sequence(h models.ImmunityHistory, n int, pattern models.ExposurePattern) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = AtTime(h, DayOffset(i, pattern))
	}
	return out
}

// LegacyValue is the earlier linear waning model, kept so results can be
// compared against it. Infection applies when it is the only history or at
// least as recent as vaccination.
func LegacyValue(vaccinationMonths, infectionMonths *float64) float64 {
	value := 1.0

	if vaccinationMonths != nil {
		weeks := *vaccinationMonths * 4.34524
		value = calculator.Clamp01(1 - (52.37-0.6*weeks)/100)
	}
	if infectionMonths != nil {
		weeks := *infectionMonths * 4.34524
		infection := calculator.Clamp01(1 - (0.7924 - 0.0116*weeks))
		if vaccinationMonths == nil || *infectionMonths <= *vaccinationMonths {
			value = infection
		}
	}
	return value
}
