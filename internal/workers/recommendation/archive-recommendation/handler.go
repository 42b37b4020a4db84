// internal/workers/recommendation/archive-recommendation/handler.go
package archiverecommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "archive-recommendation"
)

// Archiver is the slice of the recommendation service this worker needs.
type Archiver interface {
	Archive(ctx context.Context, recommendationID, userID string) (*models.Recommendation, error)
}

type Handler struct {
	config *Config
	svc    Archiver
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, svc Archiver, log logger.Logger) *Handler {
	workerLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		svc:    svc,
		errors: errors.NewErrorHandler(workerLog),
		logger: workerLog,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job,
			errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.RecommendationID == "" {
		return nil, errors.NewInputValidationFailedError("recommendationId is required")
	}
	if input.UserID == "" {
		return nil, errors.NewInputValidationFailedError("userId is required")
	}

	rec, err := h.svc.Archive(ctx, input.RecommendationID, input.UserID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("recommendation archived", map[string]interface{}{
		"recommendationId": rec.ID,
		"userId":           input.UserID,
	})
	return &Output{
		RecommendationID: rec.ID,
		IsArchived:       rec.IsArchived,
		ArchivedAt:       rec.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
