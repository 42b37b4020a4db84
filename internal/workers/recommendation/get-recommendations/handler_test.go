// internal/workers/recommendation/get-recommendations/handler_test.go
package getrecommendations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
	"migratio-workers/internal/recommendation"
)

type fakeLister struct {
	lastUserID string
	lastOpts   recommendation.ListOptions
	recs       []models.Recommendation
	err        error
}

func (f *fakeLister) List(_ context.Context, userID string, opts recommendation.ListOptions) ([]models.Recommendation, error) {
	f.lastUserID = userID
	f.lastOpts = opts
	return f.recs, f.err
}

func TestExecute_Success(t *testing.T) {
	svc := &fakeLister{recs: []models.Recommendation{
		{ID: "rec-1", Status: models.RecommendationCompleted},
		{ID: "rec-2", Status: models.RecommendationCompleted},
	}}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:        "user-1",
		SessionID:     "session-1",
		SortBy:        "cost",
		SortDirection: "asc",
		Filters: &Filters{
			Countries:     []string{"ca", "au"},
			MinMatchScore: 60,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Count)
	assert.Len(t, output.Recommendations, 2)

	assert.Equal(t, "user-1", svc.lastUserID)
	assert.Equal(t, "session-1", svc.lastOpts.SessionID)
	assert.Equal(t, 10, svc.lastOpts.Limit)
	assert.Equal(t, "cost", svc.lastOpts.SortBy)
	require.NotNil(t, svc.lastOpts.Filters)
	assert.Equal(t, []string{"ca", "au"}, svc.lastOpts.Filters.Countries)
	assert.Equal(t, float64(60), svc.lastOpts.Filters.MinMatchScore)
}

func TestExecute_MissingUserID(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeLister{}, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
}

func TestExecute_LimitPassthrough(t *testing.T) {
	svc := &fakeLister{}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID: "user-1",
		Limit:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, output.Count)
	assert.Equal(t, 3, svc.lastOpts.Limit)
	assert.Nil(t, svc.lastOpts.Filters)
}

func TestExecute_ServiceError(t *testing.T) {
	svc := &fakeLister{err: errors.NewQueryExecutionFailedError("recommendation_list", assert.AnError)}
	handler := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{UserID: "user-1"})
	require.Error(t, err)
}
