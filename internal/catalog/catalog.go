// internal/catalog/catalog.go
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"exposure-risk-workers/internal/models"
)

//go:embed default.yaml
var defaultDocument []byte

// ActivityTable maps physical activity then vocal activity to an exhaled
// aerosol multiplier.
type ActivityTable map[string]map[string]float64

// TypedVolumes is a context-specific ACH set whose volume is chosen by a
// secondary selector (vehicle type, aircraft size).
type TypedVolumes struct {
	Options       []models.EnvironmentOption `yaml:"options"`
	Volumes       map[string]float64         `yaml:"volumes"`
	DefaultVolume float64                    `yaml:"default_volume"`
}

// HasACH reports whether key matches one of the options, by exact string
// first and numeric value second.
func (tv TypedVolumes) HasACH(key string) bool {
	_, ok := matchOption(tv.Options, key)
	return ok
}

// VolumeFor returns the volume for a type and whether the type was known.
func (tv TypedVolumes) VolumeFor(kind string) (float64, bool) {
	if v, ok := tv.Volumes[models.NormalizeID(kind)]; ok {
		return v, true
	}
	return tv.DefaultVolume, false
}

type Outdoor struct {
	ACH        float64 `yaml:"ach"`
	SlabHeight float64 `yaml:"slab_height"`
}

type Activities struct {
	Physical       []string           `yaml:"physical"`
	Vocal          []string           `yaml:"vocal"`
	BreathingRates map[string]float64 `yaml:"breathing_rates"`
	Multipliers    ActivityTable      `yaml:"multipliers"`
}

type maskDocument struct {
	models.MaskType `yaml:",inline"`
	Fit             map[models.FitQuality]*float64 `yaml:"fit"`
}

type document struct {
	Version          int                       `yaml:"version"`
	BaselineFlowRate float64                   `yaml:"baseline_flow_rate"`
	Masks            []maskDocument            `yaml:"masks"`
	Activities       Activities                `yaml:"activities"`
	Environments     []models.EnvironmentGroup `yaml:"environments"`
	Vehicle          TypedVolumes              `yaml:"vehicle"`
	Aircraft         TypedVolumes              `yaml:"aircraft"`
	Outdoor          Outdoor                   `yaml:"outdoor"`
}

// Catalog is the read-only reference data shared by every resolver.
// Nothing mutates a Catalog after Load returns.
type Catalog struct {
	Version          int
	BaselineFlowRate float64
	Masks            map[string]models.MaskType
	FiTable          models.FiLookupTable
	Activities       Activities
	Groups           []models.EnvironmentGroup
	Vehicle          TypedVolumes
	Aircraft         TypedVolumes
	Outdoor          Outdoor
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultDocument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the embedded catalog. It panics only if the embedded
// document is broken, which the package tests rule out.
func Default() *Catalog {
	cat, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return cat
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cat := &Catalog{
		Version:          doc.Version,
		BaselineFlowRate: doc.BaselineFlowRate,
		Masks:            make(map[string]models.MaskType, len(doc.Masks)),
		FiTable:          make(models.FiLookupTable, len(doc.Masks)),
		Activities:       doc.Activities,
		Groups:           doc.Environments,
		Vehicle:          normalizeTyped(doc.Vehicle),
		Aircraft:         normalizeTyped(doc.Aircraft),
		Outdoor:          doc.Outdoor,
	}
	for _, m := range doc.Masks {
		id := models.NormalizeID(m.ID)
		m.MaskType.ID = id
		cat.Masks[id] = m.MaskType
		cat.FiTable[id] = m.Fit
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func normalizeTyped(tv TypedVolumes) TypedVolumes {
	volumes := make(map[string]float64, len(tv.Volumes))
	for k, v := range tv.Volumes {
		volumes[models.NormalizeID(k)] = v
	}
	tv.Volumes = volumes
	return tv
}

func (c *Catalog) validate() error {
	if c.BaselineFlowRate <= 0 {
		return fmt.Errorf("baseline_flow_rate must be positive")
	}
	if len(c.Masks) == 0 {
		return fmt.Errorf("catalog has no masks")
	}
	for id, m := range c.Masks {
		if !inUnit(m.FValue) {
			return fmt.Errorf("mask %s: f_value %v outside [0,1]", id, m.FValue)
		}
		for fit, v := range c.FiTable[id] {
			if _, ok := models.ParseFitQuality(string(fit)); !ok {
				return fmt.Errorf("mask %s: unknown fit quality %q", id, fit)
			}
			if v != nil && !inUnit(*v) {
				return fmt.Errorf("mask %s/%s: penetration %v outside [0,1]", id, fit, *v)
			}
		}
	}

	for _, physical := range c.Activities.Physical {
		row, ok := c.Activities.Multipliers[physical]
		if !ok {
			return fmt.Errorf("activity %s has no multipliers", physical)
		}
		for _, vocal := range c.Activities.Vocal {
			if m, ok := row[vocal]; !ok || m <= 0 {
				return fmt.Errorf("activity %s/%s multiplier missing or not positive", physical, vocal)
			}
		}
	}

	for _, g := range c.Groups {
		if err := validateOptions(g.Name, g.Options); err != nil {
			return err
		}
	}
	if err := validateOptions("vehicle", c.Vehicle.Options); err != nil {
		return err
	}
	if err := validateOptions("aircraft", c.Aircraft.Options); err != nil {
		return err
	}
	if c.Vehicle.DefaultVolume <= 0 || c.Aircraft.DefaultVolume <= 0 {
		return fmt.Errorf("vehicle and aircraft default_volume must be positive")
	}
	if c.Outdoor.ACH <= 0 || c.Outdoor.SlabHeight <= 0 {
		return fmt.Errorf("outdoor ach and slab_height must be positive")
	}
	return nil
}

func validateOptions(group string, options []models.EnvironmentOption) error {
	for _, o := range options {
		ach, err := strconv.ParseFloat(o.ACHKey, 64)
		if err != nil || ach <= 0 {
			return fmt.Errorf("%s/%s: ach %q must be a positive number", group, o.Label, o.ACHKey)
		}
		if o.Volume <= 0 {
			return fmt.Errorf("%s/%s: volume must be positive", group, o.Label)
		}
		if o.Range != nil && (o.Range.Min > o.Volume || o.Range.Max < o.Volume) {
			return fmt.Errorf("%s/%s: volume %v outside range", group, o.Label, o.Volume)
		}
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// Mask returns the mask with the given id, case-insensitively.
func (c *Catalog) Mask(id string) (models.MaskType, bool) {
	m, ok := c.Masks[models.NormalizeID(id)]
	return m, ok
}

// MaskIDs returns mask ids in ascending order of f_value.
func (c *Catalog) MaskIDs() []string {
	ids := make([]string, 0, len(c.Masks))
	for id := range c.Masks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return c.Masks[ids[i]].FValue < c.Masks[ids[j]].FValue
	})
	return ids
}

// Group returns the named environment group.
func (c *Catalog) Group(name string) (models.EnvironmentGroup, bool) {
	for _, g := range c.Groups {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return models.EnvironmentGroup{}, false
}

// FindByACH scans the generic environment groups for an option whose ACH
// key matches. Vehicle and aircraft options are not part of the scan.
func (c *Catalog) FindByACH(key string) (models.EnvironmentOption, bool) {
	for _, g := range c.Groups {
		for _, o := range g.Options {
			if o.ACHKey == key {
				return o, true
			}
		}
	}
	for _, g := range c.Groups {
		if o, ok := matchOption(g.Options, key); ok {
			return o, true
		}
	}
	return models.EnvironmentOption{}, false
}

func matchOption(options []models.EnvironmentOption, key string) (models.EnvironmentOption, bool) {
	key = strings.TrimSpace(key)
	for _, o := range options {
		if o.ACHKey == key {
			return o, true
		}
	}
	want, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return models.EnvironmentOption{}, false
	}
	for _, o := range options {
		if v, err := strconv.ParseFloat(o.ACHKey, 64); err == nil && v == want {
			return o, true
		}
	}
	return models.EnvironmentOption{}, false
}
