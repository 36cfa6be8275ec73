// internal/workers/prevalence/lookup-regional-prevalence/handler.go
package lookupregionalprevalence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/prevalence"
)

const (
	TaskType = "lookup-regional-prevalence"
)

type Handler struct {
	config       *Config
	service      *prevalence.Service
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, service *prevalence.Service, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      service,
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
	if input.NumWeeks < 0 || input.NumWeeks > h.config.MaxWeeks {
		return nil, errors.NewExposureInputInvalidError(
			fmt.Sprintf("num_weeks must be between 0 and %d, got %d", h.config.MaxWeeks, input.NumWeeks))
	}

	result, err := h.service.Lookup(ctx, input.ExposureLocation, input.Week)
	if err != nil {
		return nil, err
	}

	output := &Output{Result: result}
	if input.NumWeeks > 0 {
		output.Sequence, err = h.service.Sequence(ctx, input.ExposureLocation, result.Week, input.NumWeeks)
		if err != nil {
			return nil, err
		}
	}

	h.logger.Debug("prevalence resolved", map[string]interface{}{
		"region":     result.Region,
		"week":       result.Week,
		"source":     result.Source,
		"prevalence": result.Prevalence,
	})
	return output, nil
}
