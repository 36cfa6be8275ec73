// internal/timevarying/projector.go
package timevarying

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/cumulative"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/metrics"
)

// Component is the label used when the projector reports a fallback.
const Component = cumulative.Component

// ErrSuperseded is returned for a call that a newer call with the same
// sequence key overtook. Its result, if any, was discarded.
var ErrSuperseded = stderrors.New("time-varying request superseded")

// Service is the remote projection. *Client implements it.
type Service interface {
	Project(ctx context.Context, req Request) (*Response, error)
}

// Recorder receives projection outcomes. *observability.Observability
// implements it.
type Recorder interface {
	RecordProjection(ctx context.Context, outcome string)
}

type slot struct {
	id     uint64
	cancel context.CancelFunc
}

// Projector sequences calls per key so that only the latest call for a key
// can produce a result. Starting a call cancels the one it replaces.
type Projector struct {
	service     Service
	reporter    *calculator.Reporter
	recorder    Recorder
	logger      logger.Logger
	defaultWeek int

	mu     sync.Mutex
	nextID uint64
	slots  map[string]slot
}

func NewProjector(service Service, defaultWeek int, log logger.Logger) *Projector {
	return &Projector{
		service:     service,
		reporter:    calculator.NewReporter(log),
		logger:      log,
		defaultWeek: defaultWeek,
		slots:       make(map[string]slot),
	}
}

// WithRecorder attaches a recorder and returns p.
func (p *Projector) WithRecorder(r Recorder) *Projector {
	p.recorder = r
	return p
}

// Project runs req under sequenceKey. An empty key gets a fresh one, which
// can never be superseded. The returned error is ErrSuperseded (wrapped)
// or nil; service failures become a Fallback projection.
func (p *Projector) Project(ctx context.Context, sequenceKey string, req Request) (*Projection, error) {
	if sequenceKey == "" {
		sequenceKey = uuid.NewString()
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := p.begin(sequenceKey, cancel)
	defer p.end(sequenceKey, id)

	start := time.Now()
	resp, err := p.service.Project(callCtx, req)

	if !p.isLatest(sequenceKey, id) {
		p.observe(ctx, metrics.OutcomeSuperseded, start)
		p.logger.Debug("discarding superseded projection", map[string]interface{}{
			"sequenceKey": sequenceKey,
			"requestId":   id,
		})
		return nil, fmt.Errorf("%w: key %s request %d", ErrSuperseded, sequenceKey, id)
	}

	if err != nil {
		p.observe(ctx, metrics.OutcomeFallback, start)
		stdErr := errors.Normalize(err)
		p.reporter.Report(Component, calculator.ServiceUnavailable, map[string]interface{}{
			"sequenceKey": sequenceKey,
			"requestId":   id,
			"errorCode":   string(stdErr.Code),
			"error":       err.Error(),
		})
		return p.fallback(req, id, stdErr), nil
	}

	p.observe(ctx, metrics.OutcomeOK, start)
	return &Projection{Response: *resp, RequestID: id}, nil
}

// InFlight returns the number of keys with a call in progress.
func (p *Projector) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

func (p *Projector) begin(key string, cancel context.CancelFunc) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	id := p.nextID
	if prev, ok := p.slots[key]; ok {
		prev.cancel()
	}
	p.slots[key] = slot{id: id, cancel: cancel}
	return id
}

func (p *Projector) isLatest(key string, id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.slots[key]
	return ok && s.id == id
}

func (p *Projector) end(key string, id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.slots[key]; ok && s.id == id {
		delete(p.slots, key)
	}
}

func (p *Projector) observe(ctx context.Context, outcome string, start time.Time) {
	metrics.TimeVaryingRequests.WithLabelValues(outcome).Inc()
	metrics.TimeVaryingDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if p.recorder != nil {
		p.recorder.RecordProjection(ctx, outcome)
	}
}

func (p *Projector) fallback(req Request, id uint64, cause *errors.StandardError) *Projection {
	week := p.defaultWeek
	if req.StartWeek != nil {
		week = *req.StartWeek
	}
	return &Projection{
		Response:  ConstantPrevalence(req, week),
		RequestID: id,
		Fallback:  true,
		Advisory: fmt.Sprintf(
			"time-varying projection unavailable (%s); showing constant-prevalence estimate",
			cause.Code,
		),
	}
}

// ConstantPrevalence computes the projection locally, holding prevalence
// at req.BasePrevalence so every period carries req.BaseRisk.
func ConstantPrevalence(req Request, week int) Response {
	p := calculator.Clamp01(req.BaseRisk)
	n := req.NumExposures
	if n < 1 {
		n = 1
	}

	resp := Response{
		TimeVaryingRisk: cumulative.Risk(p, n),
		CurrentWeek:     week,
	}
	if th, ok := cumulative.RepetitionsToExceedHalf(p); ok {
		resp.Threshold = &th
	}
	if req.Daily {
		series := cumulative.Series(p, n)
		resp.DailySequence = make([]Period, n)
		for i, c := range series {
			resp.DailySequence[i] = Period{
				Day:            i + 1,
				Prevalence:     req.BasePrevalence,
				DailyRisk:      p,
				CumulativeRisk: c,
			}
		}
	}
	return resp
}
