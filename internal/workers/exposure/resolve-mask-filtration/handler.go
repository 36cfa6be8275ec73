// internal/workers/exposure/resolve-mask-filtration/handler.go
package resolvemaskfiltration

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/filtration"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/precision"
	"exposure-risk-workers/internal/exposure"
)

const (
	TaskType = "resolve-mask-filtration"
)

type Handler struct {
	config       *Config
	resolver     *filtration.Resolver
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		resolver:     filtration.NewResolver(cat, calculator.NewReporter(scoped)),
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
	parsed := exposure.ParseForm(input.form())

	fi := h.resolver.Inhalation(parsed.Masked, parsed.MaskType, parsed.Fit, parsed.FitFactor)
	fraction, fe := h.resolver.Exhalation(parsed.PercentMasked, parsed.OthersMaskType)

	output := &Output{
		InhalationFilter: precision.Filtration(fi),
		ExhalationFilter: precision.Filtration(fe),
		MaskedFraction:   fraction,
		Warnings:         parsed.Warnings,
	}

	h.logger.Debug("filtration resolved", map[string]interface{}{
		"maskType": parsed.MaskType,
		"f_i":      output.InhalationFilter,
		"f_e":      output.ExhalationFilter,
	})
	return output, nil
}
