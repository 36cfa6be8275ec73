// internal/prevalence/service.go
package prevalence

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/metrics"
	"exposure-risk-workers/internal/models"
)

// Where a Result came from.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
	SourceNational = "national"
	SourceDefault  = "default"
)

// Result is one resolved weekly prevalence.
type Result struct {
	Region     string  `json:"region"`
	Week       int     `json:"week"`
	Prevalence float64 `json:"prevalence"`
	Source     string  `json:"source"`
	Advisory   string  `json:"advisory,omitempty"`
}

type Options struct {
	CacheTTL     time.Duration
	DefaultWeek  int
	DefaultValue float64
	// QueryTimeout bounds one shared lookup. It is independent of any
	// single caller's deadline.
	QueryTimeout time.Duration
}

// Service resolves prevalence by region and week. Concurrent misses for the
// same key share one database round trip.
type Service struct {
	store   Store
	cache   Cache
	opts    Options
	logger  logger.Logger
	flights singleflight.Group
}

// NewService builds a Service. cache may be nil.
func NewService(store Store, cache Cache, opts Options, log logger.Logger) *Service {
	if opts.DefaultWeek == 0 {
		opts.DefaultWeek = 22
	}
	if opts.DefaultValue == 0 {
		opts.DefaultValue = 0.01
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	return &Service{store: store, cache: cache, opts: opts, logger: log}
}

// CacheKey is the redis key for a region and week.
func CacheKey(region string, week int) string {
	return fmt.Sprintf("prevalence:%s:%d", region, week)
}

// ResolveRegion accepts a region name or a US state code. Anything else is National.
func ResolveRegion(location string) string {
	location = strings.TrimSpace(location)
	for _, r := range []string{models.RegionNational, models.RegionMidwest, models.RegionNortheast, models.RegionSouth, models.RegionWest} {
		if strings.EqualFold(location, r) {
			return r
		}
	}
	return models.RegionForState(location)
}

// Week returns the normalised week, or the default start week for w <= 0.
func (s *Service) Week(w int) int {
	if w <= 0 {
		return s.opts.DefaultWeek
	}
	return models.NormalizeWeek(w)
}

// Lookup resolves the prevalence for a state code or region in week.
// A region without data falls back to National, and National without data
// to the configured default with an advisory. Only database failures are
// returned as errors.
//
// Concurrent callers for the same key share one lookup. The shared call is
// detached from the caller that started it, so one caller giving up does
// not fail the others; each caller still returns as soon as its own ctx is
// done.
func (s *Service) Lookup(ctx context.Context, location string, week int) (Result, error) {
	region := ResolveRegion(location)
	week = s.Week(week)

	ch := s.flights.DoChan(CacheKey(region, week), func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.QueryTimeout)
		defer cancel()
		return s.resolve(flightCtx, region, week)
	})

	select {
	case <-ctx.Done():
		return Result{}, s.queryError(ctx, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	}
}

func (s *Service) resolve(ctx context.Context, region string, week int) (Result, error) {
	key := CacheKey(region, week)
	if v, ok := s.fromCache(ctx, key); ok {
		return Result{Region: region, Week: week, Prevalence: v, Source: SourceCache}, nil
	}

	res := Result{Region: region, Week: week, Source: SourceDatabase}
	v, found, err := s.store.Weekly(ctx, region, week)
	if err != nil {
		return Result{}, s.queryError(ctx, err)
	}
	if !found && region != models.RegionNational {
		s.logger.Debug("region has no data, using national series", map[string]interface{}{
			"region": region,
			"week":   week,
		})
		v, found, err = s.store.Weekly(ctx, models.RegionNational, week)
		if err != nil {
			return Result{}, s.queryError(ctx, err)
		}
		res.Source = SourceNational
	}

	if !found {
		notFound := errors.NewPrevalenceNotFoundError(region, week)
		s.logger.Warn("prevalence not found, using default", map[string]interface{}{
			"region":       region,
			"week":         week,
			"defaultValue": s.opts.DefaultValue,
		})
		res.Prevalence = s.opts.DefaultValue
		res.Source = SourceDefault
		res.Advisory = fmt.Sprintf("%s: %s", notFound.Code, notFound.Details)
		return res, nil
	}

	res.Prevalence = v
	s.toCache(ctx, key, v)
	return res, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (float64, bool) {
	if s.cache == nil {
		return 0, false
	}
	v, ok, err := s.cache.GetFloat(ctx, key)
	switch {
	case err != nil:
		metrics.PrevalenceCacheHits.WithLabelValues("error").Inc()
		s.logger.Warn("prevalence cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return 0, false
	case !ok:
		metrics.PrevalenceCacheHits.WithLabelValues("miss").Inc()
		return 0, false
	default:
		metrics.PrevalenceCacheHits.WithLabelValues("hit").Inc()
		return v, true
	}
}

func (s *Service) toCache(ctx context.Context, key string, v float64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetFloat(ctx, key, v, s.opts.CacheTTL); err != nil {
		s.logger.Warn("prevalence cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *Service) queryError(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError("weekly_prevalence")
	}
	return errors.NewQueryExecutionFailedError("weekly_prevalence", err)
}

// Sequence returns n consecutive weekly values starting at startWeek,
// wrapping after week 52.
func (s *Service) Sequence(ctx context.Context, location string, startWeek, n int) ([]Result, error) {
	if n <= 0 {
		return nil, nil
	}
	start := s.Week(startWeek)
	out := make([]Result, n)
	seen := make(map[int]Result, 52)
	for i := range out {
		week := models.NormalizeWeek(start + i)
		if r, ok := seen[week]; ok {
			out[i] = r
			continue
		}
		r, err := s.Lookup(ctx, location, week)
		if err != nil {
			return nil, err
		}
		seen[week] = r
		out[i] = r
	}
	return out, nil
}
