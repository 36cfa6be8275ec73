// internal/calculator/immunity/model.go
package immunity

import (
	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/models"
)

const Component = "immune_susceptibility"

// FormAnswers are the immune-related form fields, unparsed.
type FormAnswers struct {
	RecentVaccination           string
	VaccinationTime             string
	RecentInfection             string
	InfectionTime               string
	Immunocompromised           string
	ImmunocompromisedReconsider string
}

// Model parses form answers into a history and reports answers that were
// affirmative but carried an unusable month count.
type Model struct {
	reporter *calculator.Reporter
}

func NewModel(reporter *calculator.Reporter) *Model {
	return &Model{reporter: reporter}
}

// History builds the immunity history from raw answers.
func (m *Model) History(a FormAnswers) models.ImmunityHistory {
	vacc, fb := parseMonths(a.RecentVaccination, a.VaccinationTime)
	m.reporter.Report(Component, fb, map[string]interface{}{"field": "vaccination_time", "value": a.VaccinationTime})

	inf, fb := parseMonths(a.RecentInfection, a.InfectionTime)
	m.reporter.Report(Component, fb, map[string]interface{}{"field": "infection_time", "value": a.InfectionTime})

	return models.ImmunityHistory{
		VaccinationMonths: vacc,
		InfectionMonths:   inf,
		Immunocompromised: ResolveImmunocompromised(a.Immunocompromised, a.ImmunocompromisedReconsider),
	}
}

// Susceptibility parses answers and returns the assessment.
func (m *Model) Susceptibility(a FormAnswers) (models.ImmunityHistory, Assessment) {
	h := m.History(a)
	return h, Assess(h)
}
