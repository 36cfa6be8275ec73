// internal/workers/exposure/resolve-environment/handler.go
package resolveenvironment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/environment"
	"exposure-risk-workers/internal/catalog"
	"exposure-risk-workers/internal/common/camunda"
	"exposure-risk-workers/internal/common/errors"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/exposure"
	"exposure-risk-workers/internal/models"
)

const (
	TaskType = "resolve-environment"
)

type Handler struct {
	config       *Config
	resolver     *environment.Resolver
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		resolver:     environment.NewResolver(cat, calculator.NewReporter(scoped)),
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
		Setting:      input.Setting,
		ACH:          input.ACH,
		CarType:      input.CarType,
		AirplaneType: input.AirplaneType,
		Advanced:     input.Advanced,
		CustomACH:    input.CustomACH,
		RoomVolume:   input.RoomVolume,
		Distance:     input.Distance,
	})

	volume := h.resolver.Volume(parsed.Volume)
	ach := h.resolver.ACH(parsed.ACH)

	warnings := parsed.Warnings
	if volume.Source == environment.SourceUnresolved {
		warnings = append(warnings, "room_volume: could not be resolved, using 0")
	}
	if ach.Source == environment.SourceUnresolved {
		warnings = append(warnings, fmt.Sprintf("ACH: %q could not be resolved, using 0", input.ACH))
	}

	return &Output{
		Setting:      string(parsed.Volume.Setting),
		Volume:       volume.Value,
		ACH:          ach.Value,
		VolumeSource: volume.Source,
		ACHSource:    ach.Source,
		Warnings:     warnings,
	}, nil
}
