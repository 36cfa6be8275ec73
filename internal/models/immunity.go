// internal/models/immunity.go
package models

// ProtectionParams parameterises exponential waning of protection:
// protection(t) = P0 * exp(-Lambda * t), t in months.
type ProtectionParams struct {
	P0     float64 `json:"p0" yaml:"p0"`
	Lambda float64 `json:"lambda" yaml:"lambda"`
}

var (
	InfectionUnvaccinated        = ProtectionParams{P0: 0.85, Lambda: 0.12}
	InfectionVaccinated          = ProtectionParams{P0: 0.95, Lambda: 0.18}
	VaccinationImmunocompetent   = ProtectionParams{P0: 0.40, Lambda: 0.23}
	VaccinationImmunocompromised = ProtectionParams{P0: 0.25, Lambda: 0.30}
)

// ImmunityHistory is the immune-relevant part of a form. A nil month count
// means there is no qualifying history of that kind.
type ImmunityHistory struct {
	VaccinationMonths *float64 `json:"vaccinationMonths,omitempty"`
	InfectionMonths   *float64 `json:"infectionMonths,omitempty"`
	Immunocompromised bool     `json:"immunocompromised"`
}

// ExposurePattern spaces repeated exposures in calendar time.
type ExposurePattern string

const (
	PatternDaily   ExposurePattern = "daily"
	PatternWeekly  ExposurePattern = "weekly"
	PatternMonthly ExposurePattern = "monthly"
	PatternWorkday ExposurePattern = "workday"
)

// PatternForExposures infers the pattern from a repetition count:
// 12 per year is monthly, 52 weekly, 250 workdays, anything else daily.
func PatternForExposures(n int) ExposurePattern {
	switch n {
	case 12:
		return PatternMonthly
	case 52:
		return PatternWeekly
	case 250:
		return PatternWorkday
	default:
		return PatternDaily
	}
}
