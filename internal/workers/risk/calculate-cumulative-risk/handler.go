// internal/workers/risk/calculate-cumulative-risk/handler.go
package calculatecumulativerisk

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/cumulative"
	"exposure-risk-workers/internal/calculator/riskcolor"
	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/models"
)

const (
	TaskType = "calculate-cumulative-risk"
)

type Handler struct {
	config       *Config
	reporter     *calculator.Reporter
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		reporter:     calculator.NewReporter(scoped),
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
	n := 1
	if input.NumExposures != nil {
		n = *input.NumExposures
	}
	if n < 0 {
		return nil, errors.NewExposureInputInvalidError(fmt.Sprintf("num_exposures must not be negative, got %d", n))
	}

	if !input.Risk.Valid {
		h.reporter.Report(cumulative.Component, calculator.NonNumericRisk, map[string]interface{}{"risk": input.Risk.Raw})
		return &Output{
			RepeatedExposureResult: models.RepeatedExposureResult{RepetitionCount: n},
			RiskText:               cumulative.FormatPercent(math.NaN()),
			CumulativeRiskText:     cumulative.FormatPercent(math.NaN()),
			Color:                  riskcolor.Neutral,
			Fallback:               string(calculator.NonNumericRisk),
		}, nil
	}

	p := input.Risk.Value
	output := &Output{}
	if clamped := calculator.Clamp01(p); clamped != p {
		h.reporter.Report(cumulative.Component, calculator.ProbabilityClamped, map[string]interface{}{"risk": p})
		output.Fallback = string(calculator.ProbabilityClamped)
		p = clamped
	}

	output.RepeatedExposureResult = cumulative.Repeated(p, n)
	output.RiskText = cumulative.FormatPercent(p)
	output.CumulativeRiskText = cumulative.FormatPercent(output.CumulativeRisk)
	output.Color = riskcolor.Classify(output.CumulativeRisk)
	if th, ok := cumulative.RepetitionsToExceedHalf(p); ok {
		output.Threshold = &th
	}
	return output, nil
}
