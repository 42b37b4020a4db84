// internal/workers/recommendation/add-feedback/handler.go
package addfeedback

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
	TaskType = "add-recommendation-feedback"
)

// FeedbackRecorder is the slice of the recommendation service this worker needs.
type FeedbackRecorder interface {
	AddFeedback(ctx context.Context, recommendationID, programID string, relevanceRating int, comments string) (*models.Recommendation, error)
}

type Handler struct {
	config *Config
	svc    FeedbackRecorder
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, svc FeedbackRecorder, log logger.Logger) *Handler {
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

	rec, err := h.svc.AddFeedback(ctx, input.RecommendationID, input.ProgramID, input.RelevanceRating, input.Comments)
	if err != nil {
		return nil, err
	}

	var submittedAt string
	if n := len(rec.Feedback); n > 0 {
		submittedAt = rec.Feedback[n-1].SubmittedAt.UTC().Format(time.RFC3339)
	}

	h.logger.Info("feedback recorded", map[string]interface{}{
		"recommendationId": rec.ID,
		"programId":        input.ProgramID,
		"relevanceRating":  input.RelevanceRating,
	})
	return &Output{
		RecommendationID: rec.ID,
		FeedbackCount:    len(rec.Feedback),
		SubmittedAt:      submittedAt,
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
