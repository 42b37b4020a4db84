// internal/workers/recommendation/archive-recommendation/handler_test.go
package archiverecommendation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
)

type fakeArchiver struct {
	lastRecID  string
	lastUserID string
	rec        *models.Recommendation
	err        error
}

func (f *fakeArchiver) Archive(_ context.Context, recommendationID, userID string) (*models.Recommendation, error) {
	f.lastRecID = recommendationID
	f.lastUserID = userID
	return f.rec, f.err
}

func TestExecute_Success(t *testing.T) {
	svc := &fakeArchiver{rec: &models.Recommendation{
		ID:         "rec-1",
		UserID:     "user-1",
		IsArchived: true,
		UpdatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		RecommendationID: "rec-1",
		UserID:           "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "rec-1", output.RecommendationID)
	assert.True(t, output.IsArchived)
	assert.Equal(t, "2025-06-01T12:00:00Z", output.ArchivedAt)
	assert.Equal(t, "rec-1", svc.lastRecID)
	assert.Equal(t, "user-1", svc.lastUserID)
}

func TestExecute_Validation(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeArchiver{}, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{UserID: "user-1"})
	require.Error(t, err)

	_, err = handler.Execute(context.Background(), &Input{RecommendationID: "rec-1"})
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
}

func TestExecute_WrongOwner(t *testing.T) {
	svc := &fakeArchiver{err: errors.NewRecommendationNotFoundError("rec-1")}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		RecommendationID: "rec-1",
		UserID:           "user-2",
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
