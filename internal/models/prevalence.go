// internal/models/prevalence.go
package models

import "strings"

const (
	RegionNational  = "National"
	RegionMidwest   = "Midwest"
	RegionNortheast = "Northeast"
	RegionSouth     = "South"
	RegionWest      = "West"
)

// StateRegionMap assigns US state codes to CDC reporting regions.
var StateRegionMap = map[string]string{
	"IL": RegionMidwest, "IN": RegionMidwest, "IA": RegionMidwest, "KS": RegionMidwest,
	"MI": RegionMidwest, "MN": RegionMidwest, "MO": RegionMidwest, "NE": RegionMidwest,
	"ND": RegionMidwest, "OH": RegionMidwest, "SD": RegionMidwest, "WI": RegionMidwest,

	"CT": RegionNortheast, "ME": RegionNortheast, "MA": RegionNortheast, "NH": RegionNortheast,
	"NJ": RegionNortheast, "NY": RegionNortheast, "PA": RegionNortheast, "RI": RegionNortheast,
	"VT": RegionNortheast,

	"AL": RegionSouth, "AR": RegionSouth, "DE": RegionSouth, "FL": RegionSouth,
	"GA": RegionSouth, "KY": RegionSouth, "LA": RegionSouth, "MD": RegionSouth,
	"MS": RegionSouth, "NC": RegionSouth, "OK": RegionSouth, "SC": RegionSouth,
	"TN": RegionSouth, "TX": RegionSouth, "VA": RegionSouth, "WV": RegionSouth,

	"AK": RegionWest, "AZ": RegionWest, "CA": RegionWest, "CO": RegionWest,
	"HI": RegionWest, "ID": RegionWest, "MT": RegionWest, "NV": RegionWest,
	"NM": RegionWest, "OR": RegionWest, "UT": RegionWest, "WA": RegionWest,
	"WY": RegionWest,
}

// RegionForState returns the region of a state code, or National.
func RegionForState(state string) string {
	if region, ok := StateRegionMap[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return region
	}
	return RegionNational
}

// IsRegion reports whether name is one of the reporting regions.
func IsRegion(name string) bool {
	switch name {
	case RegionNational, RegionMidwest, RegionNortheast, RegionSouth, RegionWest:
		return true
	}
	return false
}

// NormalizeWeek folds any week number onto 1..52.
func NormalizeWeek(week int) int {
	w := (week - 1) % 52
	if w < 0 {
		w += 52
	}
	return w + 1
}

// PrevalenceRecord is one row of the weekly regional prevalence table.
type PrevalenceRecord struct {
	ISOWeek    int     `json:"isoWeek" db:"iso_week"`
	Region     string  `json:"region" db:"region"`
	Prevalence float64 `json:"prevalence" db:"prevalence"`
}
