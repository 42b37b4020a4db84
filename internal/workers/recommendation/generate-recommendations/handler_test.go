// internal/workers/recommendation/generate-recommendations/handler_test.go
package generaterecommendations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
	"migratio-workers/internal/recommendation"
)

type fakeRecommender struct {
	lastUserID    string
	lastSessionID string
	lastOpts      recommendation.GenerateOptions
	rec           *models.Recommendation
	err           error
}

func (f *fakeRecommender) Generate(_ context.Context, userID, sessionID string, opts recommendation.GenerateOptions) (*models.Recommendation, error) {
	f.lastUserID = userID
	f.lastSessionID = sessionID
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

func completedRecommendation() *models.Recommendation {
	completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.Recommendation{
		ID:     "rec-1",
		UserID: "user-1",
		Status: models.RecommendationCompleted,
		Results: []models.RecommendationResult{
			{ProgramID: "prog-a", MatchScore: 92.5, Rank: 1},
			{ProgramID: "prog-b", MatchScore: 78, Rank: 2},
		},
		ProcessingTimeMs: 120,
		CompletedAt:      &completedAt,
	}
}

func TestExecute_Success(t *testing.T) {
	svc := &fakeRecommender{rec: completedRecommendation()}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "user-1",
		SessionID: "session-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "rec-1", output.RecommendationID)
	assert.Equal(t, "completed", output.Status)
	assert.Equal(t, 2, output.ResultCount)
	assert.Equal(t, "prog-a", output.TopProgramID)
	assert.Equal(t, 92.5, output.TopMatchScore)
	assert.Equal(t, "2025-06-01T12:00:00Z", output.CompletedAt)

	// Zero maxResults falls back to the worker default.
	assert.Equal(t, 10, svc.lastOpts.MaxResults)
	assert.Equal(t, "user-1", svc.lastUserID)
	assert.Equal(t, "session-1", svc.lastSessionID)
}

func TestExecute_PassesPreferences(t *testing.T) {
	svc := &fakeRecommender{rec: completedRecommendation()}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	prefs := map[string]interface{}{"countries": []interface{}{"ca"}}
	_, err := handler.Execute(context.Background(), &Input{
		UserID:      "user-1",
		MaxResults:  3,
		Preferences: prefs,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, svc.lastOpts.MaxResults)
	assert.Equal(t, prefs, svc.lastOpts.Preferences)
}

func TestExecute_ServiceError(t *testing.T) {
	svc := &fakeRecommender{err: errors.NewProfileNotFoundError("user-1")}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{UserID: "user-1"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestParseInput(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		input, err := parseInput([]byte(`{"userId":"user-1","sessionId":"s-1","maxResults":5}`))
		require.NoError(t, err)
		assert.Equal(t, "user-1", input.UserID)
		assert.Equal(t, "s-1", input.SessionID)
		assert.Equal(t, 5, input.MaxResults)
	})

	t.Run("missing userId", func(t *testing.T) {
		_, err := parseInput([]byte(`{"sessionId":"s-1"}`))
		require.Error(t, err)
		stdErr, ok := err.(*errors.StandardError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
	})

	t.Run("empty userId", func(t *testing.T) {
		_, err := parseInput([]byte(`{"userId":""}`))
		require.Error(t, err)
	})

	t.Run("maxResults out of range", func(t *testing.T) {
		_, err := parseInput([]byte(`{"userId":"user-1","maxResults":500}`))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseInput([]byte(`{not json`))
		require.Error(t, err)
	})
}
