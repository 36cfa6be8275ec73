// internal/workers/exposure/compute-immune-susceptibility/handler.go
package computeimmunesusceptibility

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/immunity"
	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/precision"
	"exposure-risk-workers/internal/models"
)

const (
	TaskType = "compute-immune-susceptibility"
)

type Handler struct {
	config       *Config
	model        *immunity.Model
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		model:        immunity.NewModel(calculator.NewReporter(scoped)),
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	history, assessment := h.model.Susceptibility(input.answers())

	output := &Output{
		Immune:       precision.Susceptibility(assessment.Susceptibility),
		Protection:   precision.Susceptibility(assessment.Protection),
		Basis:        assessment.Basis,
		Params:       assessment.Params,
		History:      history,
		LegacyImmune: precision.Susceptibility(immunity.LegacyValue(history.VaccinationMonths, history.InfectionMonths)),
	}

	if input.NumExposures == nil || *input.NumExposures <= 0 {
		return output, nil
	}

	n := *input.NumExposures
	if n > h.config.MaxSequence {
		return nil, errors.NewExposureInputInvalidError(
			fmt.Sprintf("num_exposures %d exceeds the limit of %d", n, h.config.MaxSequence))
	}

	output.Pattern = models.PatternForExposures(n)
	output.Sequence = immunity.Sequence(history, n, output.Pattern)
	for i, v := range output.Sequence {
		output.Sequence[i] = precision.Susceptibility(v)
	}
	return output, nil
}
