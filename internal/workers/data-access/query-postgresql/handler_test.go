package querypostgresql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
)

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func docRow(t *testing.T, v interface{}) []byte {
	t.Helper()
	doc, err := json.Marshal(v)
	require.NoError(t, err)
	return doc
}

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		mockQuery      func(t *testing.T, mock sqlmock.Sqlmock)
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "user profile",
			input: &Input{QueryType: string(models.QueryUserProfile), UserID: "user-123"},
			mockQuery: func(t *testing.T, mock sqlmock.Sqlmock) {
				doc := docRow(t, map[string]interface{}{"userId": "user-123", "personalInfo": map[string]interface{}{"email": "a@b.c"}})
				mock.ExpectQuery(`SELECT doc FROM profiles`).
					WithArgs("user-123").
					WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
				data, ok := output.Data.(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "user-123", data["userId"])
			},
		},
		{
			name:  "program details",
			input: &Input{QueryType: string(models.QueryProgramDetails), ProgramID: "prog-1"},
			mockQuery: func(t *testing.T, mock sqlmock.Sqlmock) {
				doc := docRow(t, map[string]interface{}{"programId": "prog-1", "name": "Skilled Worker"})
				mock.ExpectQuery(`SELECT doc FROM programs`).
					WithArgs("prog-1").
					WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
				data := output.Data.(map[string]interface{})
				assert.Equal(t, "Skilled Worker", data["name"])
			},
		},
		{
			name:  "match details",
			input: &Input{QueryType: string(models.QueryMatchDetails), MatchID: "match-1"},
			mockQuery: func(t *testing.T, mock sqlmock.Sqlmock) {
				doc := docRow(t, map[string]interface{}{"id": "match-1", "overallScore": 87.5})
				mock.ExpectQuery(`SELECT doc FROM match_results`).
					WithArgs("match-1").
					WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))
			},
			validateOutput: func(t *testing.T, output *Output) {
				data := output.Data.(map[string]interface{})
				assert.Equal(t, 87.5, data["overallScore"])
			},
		},
		{
			name:  "gap analysis",
			input: &Input{QueryType: string(models.QueryGapAnalysis), GapAnalysisID: "gap-1"},
			mockQuery: func(t *testing.T, mock sqlmock.Sqlmock) {
				doc := docRow(t, map[string]interface{}{"id": "gap-1", "gaps": []interface{}{}})
				mock.ExpectQuery(`SELECT doc FROM gap_analyses`).
					WithArgs("gap-1").
					WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
			},
		},
		{
			name:  "recommendation list",
			input: &Input{QueryType: string(models.QueryRecommendationList), UserID: "user-123"},
			mockQuery: func(t *testing.T, mock sqlmock.Sqlmock) {
				first := docRow(t, map[string]interface{}{"id": "rec-1"})
				second := docRow(t, map[string]interface{}{"id": "rec-2"})
				mock.ExpectQuery(`SELECT doc FROM recommendations`).
					WithArgs("user-123", 10).
					WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(first).AddRow(second))
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 2, output.RowCount)
				data, ok := output.Data.([]map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "rec-1", data[0]["id"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mockQuery(t, mock)

			handler := NewHandler(createTestConfig(), db, createTestLogger(t))
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, output)

			tt.validateOutput(t, output)
			assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_RecommendationListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT doc FROM recommendations WHERE user_id = \$1 AND session_id = \$2 AND status = \$3 ORDER BY created_at DESC LIMIT \$4`).
		WithArgs("user-123", "session-1", "completed", 5).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	handler := NewHandler(createTestConfig(), db, createTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryRecommendationList),
		UserID:    "user-123",
		Filters: map[string]interface{}{
			"sessionId":       "session-1",
			"status":          "completed",
			"includeArchived": true,
			"limit":           float64(5),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InvalidQueryType(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, createTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{QueryType: "visa_history"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQueryType)
}

func TestHandler_Execute_MissingParam(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, createTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryUserProfile),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}

func TestHandler_Execute_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT doc FROM profiles`).
		WithArgs("user-123").
		WillReturnError(assert.AnError)

	handler := NewHandler(createTestConfig(), db, createTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryUserProfile),
		UserID:    "user-123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NilInput(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, createTestLogger(t))
	_, err = handler.Execute(context.Background(), nil)
	require.Error(t, err)
}
