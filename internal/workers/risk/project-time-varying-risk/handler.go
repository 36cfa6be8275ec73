// internal/workers/risk/project-time-varying-risk/handler.go
package projecttimevaryingrisk

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/models"
	"exposure-risk-workers/internal/prevalence"
	"exposure-risk-workers/internal/timevarying"
)

const (
	TaskType = "project-time-varying-risk"
)

// Projector runs one sequenced projection. *timevarying.Projector implements it.
type Projector interface {
	Project(ctx context.Context, sequenceKey string, req timevarying.Request) (*timevarying.Projection, error)
}

type Handler struct {
	config       *Config
	projector    Projector
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, projector Projector, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		projector:    projector,
		errorHandler: errors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			errors.NewExposureInputInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	req, err := h.buildRequest(input)
	if err != nil {
		return nil, err
	}

	projection, err := h.projector.Project(ctx, input.SessionID, req)
	if stderrors.Is(err, timevarying.ErrSuperseded) {
		h.logger.Info("projection superseded", map[string]interface{}{
			"sessionId": input.SessionID,
			"error":     err.Error(),
		})
		return &Output{Superseded: true, Region: req.Region}, nil
	}
	if err != nil {
		return nil, err
	}

	if projection.Fallback {
		h.logger.Warn("using constant-prevalence projection", map[string]interface{}{
			"sessionId": input.SessionID,
			"advisory":  projection.Advisory,
		})
	}
	return &Output{Region: req.Region, Projection: projection}, nil
}

func (h *Handler) buildRequest(input *Input) (timevarying.Request, error) {
	if !input.BaseRisk.Valid {
		return timevarying.Request{}, errors.NewExposureInputInvalidError(
			fmt.Sprintf("base_risk must be a number, got %s", input.BaseRisk.Raw))
	}

	n := 1
	if input.NumExposures != nil {
		n = *input.NumExposures
	}
	if n < 1 || n > h.config.MaxExposures {
		return timevarying.Request{}, errors.NewExposureInputInvalidError(
			fmt.Sprintf("num_exposures must be between 1 and %d, got %d", h.config.MaxExposures, n))
	}

	basePrevalence := h.config.DefaultPrevalence
	if input.BasePrevalence.Valid {
		basePrevalence = calculator.Clamp01(input.BasePrevalence.Value)
	}

	var startWeek *int
	if input.StartWeek != nil && *input.StartWeek > 0 {
		w := models.NormalizeWeek(*input.StartWeek)
		startWeek = &w
	}

	return timevarying.Request{
		BaseRisk:          calculator.Clamp01(input.BaseRisk.Value),
		BasePrevalence:    basePrevalence,
		NumExposures:      n,
		Region:            prevalence.ResolveRegion(input.Region),
		Daily:             input.Daily,
		StartWeek:         startWeek,
		CalculationParams: input.CalculationParams,
	}, nil
}
