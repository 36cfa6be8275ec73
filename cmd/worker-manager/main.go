// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/config"
	"exposure-risk-workers/internal/common/database"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/observability"
	"exposure-risk-workers/internal/common/validation"
	"exposure-risk-workers/internal/exposure"
	"exposure-risk-workers/internal/prevalence"
	"exposure-risk-workers/internal/timevarying"
	"exposure-risk-workers/pkg/registry"

	// Exposure Workers (5)
	aep "exposure-risk-workers/internal/workers/exposure/assemble-exposure-parameters"
	cis "exposure-risk-workers/internal/workers/exposure/compute-immune-susceptibility"
	mef "exposure-risk-workers/internal/workers/exposure/model-exhalation-flow"
	re "exposure-risk-workers/internal/workers/exposure/resolve-environment"
	rmf "exposure-risk-workers/internal/workers/exposure/resolve-mask-filtration"

	// Risk Workers (3)
	ccr "exposure-risk-workers/internal/workers/risk/calculate-cumulative-risk"
	crc "exposure-risk-workers/internal/workers/risk/classify-risk-color"
	ptv "exposure-risk-workers/internal/workers/risk/project-time-varying-risk"

	// Prevalence Workers (1)
	lrp "exposure-risk-workers/internal/workers/prevalence/lookup-regional-prevalence"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// workerTimeout is the per-job deadline for taskType, or fallback when unset.
func workerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if wcfg, ok := cfg.Workers[taskType]; ok && wcfg.Timeout > 0 {
		return config.GetDuration(wcfg.Timeout)
	}
	return fallback
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(errors.NewCatalogLoadFailedError(cfg.Catalog.Path, err)))
	}

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("registry load failed", zap.Error(err))
	}
	validator := validation.NewSchemaValidator()
	if err := reg.RegisterInputSchemas(validator); err != nil {
		zapLog.Fatal("input schema registration failed", zap.Error(err))
	}

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFromApp(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return database.Verify(ctx, pg)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(errors.NewDatabaseConnectionFailedError(err)))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	// The prevalence cache is optional: without redis every lookup goes to postgres.
	var cache prevalence.Cache
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return database.Verify(ctx, redis)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Error("redis unavailable, prevalence cache disabled", zap.Error(err))
	} else {
		defer redis.Close()
		cache = redis
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Domain Services ---
	prevalenceService := prevalence.NewService(
		prevalence.NewPostgresStore(pg.GetDB()),
		cache,
		prevalence.Options{
			CacheTTL:     time.Duration(cfg.Prevalence.CacheTTL) * time.Second,
			DefaultWeek:  cfg.Prevalence.DefaultStartWeek,
			DefaultValue: cfg.Prevalence.DefaultValue,
			QueryTimeout: config.GetDuration(cfg.Prevalence.QueryTimeout),
		},
		log.WithFields(map[string]interface{}{"component": "prevalence"}),
	)

	projector := timevarying.NewProjector(
		timevarying.NewClient(cfg.APIs.TimeVarying.BaseURL, config.GetDuration(cfg.APIs.TimeVarying.Timeout)),
		cfg.Prevalence.DefaultStartWeek,
		log.WithFields(map[string]interface{}{"component": "timevarying"}),
	).WithRecorder(obs)

	assembler := exposure.NewAssembler(cat, log.WithFields(map[string]interface{}{"component": "assembler"})).
		WithPrevalence(prevalenceService, cfg.Prevalence.DefaultValue, 0)

	zapLog.Info("Domain services initialized")

	// --- START: Register ALL 9 Workers ---
	client := zeebe.GetClient()
	var workers []worker.JobWorker
	start := func(taskType string, h worker.JobHandler) {
		if jw := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), h, obs, log); jw != nil {
			workers = append(workers, jw)
		}
	}

	// --- 1. Exposure Workers (5) ---
	{
		c := rmf.LoadConfig()
		c.Timeout = workerTimeout(cfg, rmf.TaskType, c.Timeout)
		start(rmf.TaskType, rmf.NewHandler(c, cat, log).Handle)
	}
	{
		c := mef.LoadConfig()
		c.Timeout = workerTimeout(cfg, mef.TaskType, c.Timeout)
		start(mef.TaskType, mef.NewHandler(c, cat, log).Handle)
	}
	{
		c := re.LoadConfig()
		c.Timeout = workerTimeout(cfg, re.TaskType, c.Timeout)
		start(re.TaskType, re.NewHandler(c, cat, log).Handle)
	}
	{
		c := cis.LoadConfig()
		c.Timeout = workerTimeout(cfg, cis.TaskType, c.Timeout)
		start(cis.TaskType, cis.NewHandler(c, log).Handle)
	}
	{
		c := aep.LoadConfig()
		c.Timeout = workerTimeout(cfg, aep.TaskType, c.Timeout)
		start(aep.TaskType, aep.NewHandler(c, assembler, validator, log).Handle)
	}

	// --- 2. Risk Workers (3) ---
	{
		c := ccr.LoadConfig()
		c.Timeout = workerTimeout(cfg, ccr.TaskType, c.Timeout)
		start(ccr.TaskType, ccr.NewHandler(c, log).Handle)
	}
	{
		c := ptv.LoadConfig()
		c.Timeout = workerTimeout(cfg, ptv.TaskType, c.Timeout)
		c.DefaultPrevalence = cfg.Prevalence.DefaultValue
		start(ptv.TaskType, ptv.NewHandler(c, projector, log).Handle)
	}
	{
		c := crc.LoadConfig()
		c.Timeout = workerTimeout(cfg, crc.TaskType, c.Timeout)
		start(crc.TaskType, crc.NewHandler(c, log).Handle)
	}

	// --- 3. Prevalence Workers (1) ---
	{
		c := lrp.LoadConfig()
		c.Timeout = workerTimeout(cfg, lrp.TaskType, c.Timeout)
		start(lrp.TaskType, lrp.NewHandler(c, prevalenceService, log).Handle)
	}

	zapLog.Info("Workers registered", zap.Int("running", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok", "postgres": "ok"}
		status := http.StatusOK
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := pg.Ping(checkCtx); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if redis != nil && cache != nil {
			checks["redis"] = "ok"
			if err := redis.Ping(checkCtx); err != nil {
				// Degraded, not unready: lookups fall through to postgres.
				checks["redis"] = err.Error()
			}
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		writeStatus(w, status, state, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, jw := range workers {
		jw.Close()
		jw.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
