// internal/workers/exposure/model-exhalation-flow/handler.go
package modelexhalationflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/exhalation"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/precision"
	"exposure-risk-workers/internal/exposure"
	"exposure-risk-workers/internal/models"
)

const (
	TaskType = "model-exhalation-flow"
)

type Handler struct {
	config       *Config
	model        *exhalation.Model
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		model:        exhalation.NewModel(cat, calculator.NewReporter(scoped)),
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
	parsed := exposure.ParseForm(models.ExposureForm{
		PhysicalIntensityIndex: input.PhysicalIntensityIndex,
		VocalizationIndex:      input.VocalizationIndex,
	})

	multiplier, q0 := h.model.Resolve(parsed.Physical, parsed.Vocal)
	rate, _ := h.model.BreathingRate(parsed.Physical)

	return &Output{
		PhysicalActivity:   parsed.Physical,
		VocalActivity:      parsed.Vocal,
		ActivityMultiplier: multiplier,
		ExhaledFlowRate:    precision.FlowRate(q0),
		BreathingRate:      rate,
		Warnings:           parsed.Warnings,
	}, nil
}
