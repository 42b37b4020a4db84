// internal/workers/recommendation/generate-recommendations/handler.go
package generaterecommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/common/metrics"
	"migratio-workers/internal/models"
	"migratio-workers/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "generate-recommendations"
)

// inputSchema rejects malformed workflow variables before the run is
// created, so a bad request never leaves a failed recommendation behind.
var inputSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"userId"},
	"properties": map[string]interface{}{
		"userId":    map[string]interface{}{"type": "string", "minLength": 1},
		"sessionId": map[string]interface{}{"type": "string"},
		"maxResults": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 50,
		},
		"preferences": map[string]interface{}{"type": "object"},
	},
}

// Recommender is the slice of the recommendation service this worker needs.
type Recommender interface {
	Generate(ctx context.Context, userID, sessionID string, opts recommendation.GenerateOptions) (*models.Recommendation, error)
}

type Handler struct {
	config *Config
	svc    Recommender
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, svc Recommender, log logger.Logger) *Handler {
	workerLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		svc:    svc,
		errors: errors.NewErrorHandler(workerLog),
		logger: workerLog,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := parseInput([]byte(job.Variables))
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeInputValidationFailed)).Inc()
		h.errors.HandleJobError(context.Background(), client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.GetErrorCode(err))).Inc()
		metrics.RecommendationsGenerated.WithLabelValues("failed").Inc()
		h.errors.HandleJobError(context.Background(), client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	metrics.RecommendationsGenerated.WithLabelValues("completed").Inc()
	metrics.RecommendationResults.Observe(float64(output.ResultCount))

	h.completeJob(client, job, output)
}

func parseInput(variables []byte) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(variables, &raw); err != nil {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(inputSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("validate input: %v", err))
	}
	if !result.Valid() {
		descs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			descs[i] = desc.String()
		}
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("invalid input variables: %v", descs))
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = h.config.MaxResults
	}

	rec, err := h.svc.Generate(ctx, input.UserID, input.SessionID, recommendation.GenerateOptions{
		MaxResults:  maxResults,
		Preferences: input.Preferences,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{
		RecommendationID: rec.ID,
		Status:           string(rec.Status),
		ResultCount:      len(rec.Results),
		ProcessingTimeMs: rec.ProcessingTimeMs,
	}
	if len(rec.Results) > 0 {
		output.TopProgramID = rec.Results[0].ProgramID
		output.TopMatchScore = rec.Results[0].MatchScore
	}
	if rec.CompletedAt != nil {
		output.CompletedAt = rec.CompletedAt.UTC().Format(time.RFC3339)
	}

	h.logger.Info("recommendations generated", map[string]interface{}{
		"recommendationId": rec.ID,
		"userId":           input.UserID,
		"resultCount":      output.ResultCount,
		"processingTimeMs": output.ProcessingTimeMs,
	})
	return output, nil
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
