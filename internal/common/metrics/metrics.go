// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes for TimeVaryingRequests.
const (
	OutcomeOK         = "ok"
	OutcomeFallback   = "fallback"
	OutcomeSuperseded = "superseded"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	DefaultsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_calculator_defaults_applied_total",
			Help: "Number of times a calculator substituted a default for missing or invalid input",
		},
		[]string{"component", "reason"},
	)

	TimeVaryingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_varying_requests_total",
			Help: "Time-varying risk projections by outcome",
		},
		[]string{"outcome"},
	)

	TimeVaryingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "time_varying_request_duration_seconds",
			Help:    "Latency of calls to the time-varying risk service",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	PrevalenceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prevalence_cache_hits_total",
			Help: "Prevalence lookups served from cache, by result",
		},
		[]string{"result"},
	)
)
