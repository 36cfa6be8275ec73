// internal/workers/exposure/assemble-exposure-parameters/handler.go
package assembleexposureparameters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/common/validation"
	"exposure-risk-workers/internal/exposure"
)

const (
	TaskType = "assemble-exposure-parameters"
)

type Handler struct {
	config       *Config
	assembler    *exposure.Assembler
	validator    *validation.SchemaValidator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. A nil validator, or one without a schema
// registered under TaskType, skips schema validation.
func NewHandler(config *Config, assembler *exposure.Assembler, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		assembler:    assembler,
		validator:    validator,
		errorHandler: errors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	variables, err := job.GetVariablesAsMap()
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			errors.NewExposureInputInvalidError(fmt.Sprintf("parse variables: %v", err)))
		return
	}
	if err := h.Validate(variables); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

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

// Validate checks raw job variables against the registered input schema.
func (h *Handler) Validate(variables map[string]interface{}) error {
	if h.validator == nil || !h.validator.Has(TaskType) {
		return nil
	}
	result, err := h.validator.Validate(TaskType, variables)
	if err != nil {
		return errors.NewExposureInputInvalidError(err.Error())
	}
	if !result.Valid {
		return errors.NewExposureInputInvalidError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	assembly, err := h.assembler.Assemble(ctx, input.Form)
	if err != nil {
		// Assemble only fails when ctx is done.
		return nil, errors.NewTimeoutError(TaskType, err)
	}

	if len(assembly.Warnings) > 0 {
		h.logger.Warn("form assembled with defaults", map[string]interface{}{
			"sessionId": input.SessionID,
			"warnings":  assembly.Warnings,
		})
	}

	return &Output{SessionID: input.SessionID, Assembly: *assembly}, nil
}
