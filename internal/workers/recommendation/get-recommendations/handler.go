// internal/workers/recommendation/get-recommendations/handler.go
package getrecommendations

import (
	"context"
	"encoding/json"
	"fmt"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
	"migratio-workers/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-recommendations"
)

// Lister is the slice of the recommendation service this worker needs.
type Lister interface {
	List(ctx context.Context, userID string, opts recommendation.ListOptions) ([]models.Recommendation, error)
}

type Handler struct {
	config *Config
	svc    Lister
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, svc Lister, log logger.Logger) *Handler {
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
	if input.UserID == "" {
		return nil, errors.NewInputValidationFailedError("userId is required")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	opts := recommendation.ListOptions{
		SessionID:       input.SessionID,
		Status:          models.RecommendationStatus(input.Status),
		IncludeArchived: input.IncludeArchived,
		Limit:           limit,
		SortBy:          input.SortBy,
		SortDirection:   input.SortDirection,
	}
	if input.Filters != nil {
		opts.Filters = &recommendation.ResultFilters{
			Countries:         input.Filters.Countries,
			MinMatchScore:     input.Filters.MinMatchScore,
			MaxProcessingTime: input.Filters.MaxProcessingTime,
			MaxCost:           input.Filters.MaxCost,
		}
	}

	recs, err := h.svc.List(ctx, input.UserID, opts)
	if err != nil {
		return nil, err
	}

	h.logger.Info("recommendations listed", map[string]interface{}{
		"userId": input.UserID,
		"count":  len(recs),
	})
	return &Output{Recommendations: recs, Count: len(recs)}, nil
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
