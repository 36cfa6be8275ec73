// internal/exposure/assembler.go
package exposure

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/environment"
	"exposure-risk-workers/internal/calculator/exhalation"
	"exposure-risk-workers/internal/calculator/filtration"
	"exposure-risk-workers/internal/calculator/immunity"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/precision"
	"exposure-risk-workers/internal/models"
	"exposure-risk-workers/internal/prevalence"
)

// Where the assembled prevalence came from, besides the prevalence.Source* values.
const (
	PrevalenceFromForm    = "form"
	PrevalenceFromDefault = "default"
)

// PrevalenceSource looks up community prevalence. *prevalence.Service implements it.
type PrevalenceSource interface {
	Lookup(ctx context.Context, location string, week int) (prevalence.Result, error)
}

// Assembly is an ExposureParameterSet plus how each part was resolved.
type Assembly struct {
	Parameters       models.ExposureParameterSet `json:"parameters"`
	VolumeSource     environment.Source          `json:"volumeSource"`
	ACHSource        environment.Source          `json:"achSource"`
	ImmunityBasis    immunity.Basis              `json:"immunityBasis"`
	Region           string                      `json:"region,omitempty"`
	PrevalenceSource string                      `json:"prevalenceSource"`
	Warnings         []string                    `json:"warnings,omitempty"`
}

// Assembler runs the four component resolvers over one parsed form.
type Assembler struct {
	filtration *filtration.Resolver
	flow       *exhalation.Model
	env        *environment.Resolver
	immune     *immunity.Model
	logger     logger.Logger

	prevalence        PrevalenceSource
	defaultPrevalence float64
	week              int
}

func NewAssembler(cat *catalog.Catalog, log logger.Logger) *Assembler {
	reporter := calculator.NewReporter(log)
	return &Assembler{
		filtration:        filtration.NewResolver(cat, reporter),
		flow:              exhalation.NewModel(cat, reporter),
		env:               environment.NewResolver(cat, reporter),
		immune:            immunity.NewModel(reporter),
		logger:            log,
		defaultPrevalence: 0.01,
	}
}

// WithPrevalence makes the assembler look up prevalence for forms that do
// not override it. week <= 0 means the source's default week.
func (a *Assembler) WithPrevalence(src PrevalenceSource, defaultValue float64, week int) *Assembler {
	a.prevalence = src
	if defaultValue > 0 {
		a.defaultPrevalence = defaultValue
	}
	a.week = week
	return a
}

// Assemble parses form and resolves every parameter. The component
// resolvers are independent and run concurrently; each writes its own
// fields. Only a cancelled ctx produces an error.
func (a *Assembler) Assemble(ctx context.Context, form models.ExposureForm) (*Assembly, error) {
	parsed := ParseForm(form)
	out := &Assembly{Warnings: parsed.Warnings}
	params := &out.Parameters
	params.DurationSeconds = parsed.DurationSeconds
	params.DistanceFeet = parsed.DistanceFeet
	params.People = parsed.People

	var mu sync.Mutex
	addWarning := func(w string) {
		mu.Lock()
		out.Warnings = append(out.Warnings, w)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fi := a.filtration.Inhalation(parsed.Masked, parsed.MaskType, parsed.Fit, parsed.FitFactor)
		fraction, fe := a.filtration.Exhalation(parsed.PercentMasked, parsed.OthersMaskType)
		params.InhalationFilter = precision.Filtration(fi)
		params.ExhalationFilter = precision.Filtration(fe)
		params.MaskedFraction = fraction
		return nil
	})

	g.Go(func() error {
		multiplier, q0 := a.flow.Resolve(parsed.Physical, parsed.Vocal)
		params.ActivityMultiplier = multiplier
		params.ExhaledFlowRate = precision.FlowRate(q0)
		return nil
	})

	g.Go(func() error {
		vol := a.env.Volume(parsed.Volume)
		ach := a.env.ACH(parsed.ACH)
		params.Volume, out.VolumeSource = vol.Value, vol.Source
		params.ACH, out.ACHSource = ach.Value, ach.Source
		return nil
	})

	g.Go(func() error {
		_, assessment := a.immune.Susceptibility(parsed.Immunity)
		params.Susceptibility = precision.Susceptibility(assessment.Susceptibility)
		out.ImmunityBasis = assessment.Basis
		return nil
	})

	g.Go(func() error {
		v, region, source := a.resolvePrevalence(gctx, parsed, addWarning)
		params.Prevalence = v
		out.Region = region
		out.PrevalenceSource = source
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Assembler) resolvePrevalence(ctx context.Context, parsed Parsed, addWarning func(string)) (float64, string, string) {
	if parsed.PrevalenceOverride != nil {
		return *parsed.PrevalenceOverride, "", PrevalenceFromForm
	}
	if a.prevalence == nil {
		return a.defaultPrevalence, "", PrevalenceFromDefault
	}

	res, err := a.prevalence.Lookup(ctx, parsed.Location, a.week)
	if err != nil {
		a.logger.Warn("prevalence lookup failed, using default", map[string]interface{}{
			"location": parsed.Location,
			"error":    err.Error(),
		})
		addWarning(fmt.Sprintf("covid_prevalence: lookup failed: %v", err))
		return a.defaultPrevalence, "", PrevalenceFromDefault
	}
	if res.Advisory != "" {
		addWarning(res.Advisory)
	}
	return res.Prevalence, res.Region, res.Source
}
