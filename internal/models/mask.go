// internal/models/mask.go
package models

import "strings"

// MaskType is a catalog entry describing one kind of face covering.
// FValue is the base penetration fraction in [0,1]; lower protects more.
type MaskType struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label" yaml:"label"`
	FValue float64 `json:"fValue" yaml:"f_value"`
}

// FitQuality describes how well a mask seals on the wearer.
type FitQuality string

const (
	FitLoose       FitQuality = "Loose"
	FitAverage     FitQuality = "Average"
	FitSnug        FitQuality = "Snug"
	FitQualitative FitQuality = "Qualitative"
)

var fitQualities = []FitQuality{FitLoose, FitAverage, FitSnug, FitQualitative}

// ParseFitQuality matches s case-insensitively against the known fit qualities.
func ParseFitQuality(s string) (FitQuality, bool) {
	s = strings.TrimSpace(s)
	for _, fq := range fitQualities {
		if strings.EqualFold(s, string(fq)) {
			return fq, true
		}
	}
	return "", false
}

// FiLookupTable maps mask id and fit quality to an inhalation penetration
// fraction. A nil entry marks an unsupported combination.
type FiLookupTable map[string]map[FitQuality]*float64

// Lookup returns the entry for (maskID, fit) when it exists and is supported.
func (t FiLookupTable) Lookup(maskID string, fit FitQuality) (float64, bool) {
	byFit, ok := t[NormalizeID(maskID)]
	if !ok {
		return 0, false
	}
	v, ok := byFit[fit]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// NormalizeID is the canonical form of catalog identifiers.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
