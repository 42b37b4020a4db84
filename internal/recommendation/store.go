// internal/recommendation/store.go
package recommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
)

// PostgresStore persists recommendations, match results and gap analyses as
// JSONB documents with indexed scalar columns for the query paths.
type PostgresStore struct {
	db  *sql.DB
	log logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PostgresStore{db: db, log: log}
}

func (s *PostgresStore) CreateRecommendation(ctx context.Context, rec *models.Recommendation) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recommendations (
			id, user_id, session_id, status, is_archived, doc, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		rec.ID,
		rec.UserID,
		rec.SessionID,
		string(rec.Status),
		rec.IsArchived,
		doc,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (s *PostgresStore) UpdateRecommendation(ctx context.Context, rec *models.Recommendation) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recommendations
		SET status = $2, is_archived = $3, doc = $4, updated_at = $5
		WHERE id = $1`,
		rec.ID,
		string(rec.Status),
		rec.IsArchived,
		doc,
		rec.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return errors.NewRecommendationNotFoundError(rec.ID)
	}
	return nil
}

// MarkRecommendationFailed records the failure reason directly in SQL so it
// works even when the in-memory document is stale.
func (s *PostgresStore) MarkRecommendationFailed(ctx context.Context, recommendationID string, recErr *models.RecommendationError) error {
	errDoc, err := json.Marshal(recErr)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recommendations
		SET status = 'failed',
		    doc = jsonb_set(jsonb_set(doc, '{status}', '"failed"'), '{error}', $2::jsonb),
		    updated_at = $3
		WHERE id = $1`,
		recommendationID,
		errDoc,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return errors.NewRecommendationNotFoundError(recommendationID)
	}
	return nil
}

func (s *PostgresStore) GetRecommendation(ctx context.Context, recommendationID string) (*models.Recommendation, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM recommendations WHERE id = $1`, recommendationID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecommendationNotFoundError(recommendationID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation", err)
	}

	var rec models.Recommendation
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation", err)
	}
	return &rec, nil
}

func (s *PostgresStore) ListRecommendations(ctx context.Context, userID string, q ListQuery) ([]models.Recommendation, error) {
	query := `SELECT doc FROM recommendations WHERE user_id = $1`
	args := []interface{}{userID}

	if q.SessionID != "" {
		args = append(args, q.SessionID)
		query += ` AND session_id = $` + strconv.Itoa(len(args))
	}
	if q.Status != "" {
		args = append(args, string(q.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if !q.IncludeArchived {
		query += ` AND is_archived = FALSE`
	}

	query += ` ORDER BY created_at DESC`
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation_list", err)
	}
	defer rows.Close()

	var recs []models.Recommendation
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.NewQueryExecutionFailedError("recommendation_list", err)
		}
		var rec models.Recommendation
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, errors.NewQueryExecutionFailedError("recommendation_list", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation_list", err)
	}
	return recs, nil
}

// ArchiveRecommendation flips the archived flag atomically, scoped to the
// owning user so callers cannot archive someone else's run.
func (s *PostgresStore) ArchiveRecommendation(ctx context.Context, recommendationID, userID string) (*models.Recommendation, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `
		UPDATE recommendations
		SET is_archived = TRUE,
		    doc = jsonb_set(doc, '{isArchived}', 'true'),
		    updated_at = $3
		WHERE id = $1 AND user_id = $2
		RETURNING doc`,
		recommendationID,
		userID,
		time.Now().UTC().Format(time.RFC3339),
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecommendationNotFoundError(recommendationID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation_archive", err)
	}

	var rec models.Recommendation
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation_archive", err)
	}
	return &rec, nil
}

// AddFeedback appends feedback inside a transaction so concurrent feedback
// on the same recommendation does not lose entries.
func (s *PostgresStore) AddFeedback(ctx context.Context, recommendationID string, feedback models.Feedback) (*models.Recommendation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	var doc []byte
	err = tx.QueryRowContext(ctx,
		`SELECT doc FROM recommendations WHERE id = $1 FOR UPDATE`, recommendationID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecommendationNotFoundError(recommendationID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation_feedback", err)
	}

	var rec models.Recommendation
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommendation_feedback", err)
	}

	rec.Feedback = append(rec.Feedback, feedback)
	rec.UpdatedAt = time.Now().UTC()

	updated, err := json.Marshal(&rec)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE recommendations SET doc = $2, updated_at = $3 WHERE id = $1`,
		recommendationID,
		updated,
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	return &rec, nil
}

func (s *PostgresStore) SaveMatchResult(ctx context.Context, match *models.MatchResult) error {
	doc, err := json.Marshal(match)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO match_results (
			id, recommendation_id, user_id, program_id, overall_score, doc, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		match.ID,
		match.RecommendationID,
		match.UserID,
		match.ProgramID,
		match.OverallScore,
		doc,
		match.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (s *PostgresStore) GetMatchResult(ctx context.Context, matchID string) (*models.MatchResult, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM match_results WHERE id = $1`, matchID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewMatchNotFoundError(matchID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("match_details", err)
	}

	var match models.MatchResult
	if err := json.Unmarshal(doc, &match); err != nil {
		return nil, errors.NewQueryExecutionFailedError("match_details", err)
	}
	return &match, nil
}

func (s *PostgresStore) SaveGapAnalysis(ctx context.Context, result *models.GapAnalysisResult) error {
	doc, err := json.Marshal(result)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO gap_analyses (
			id, recommendation_id, user_id, program_id, doc, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		result.ID,
		result.RecommendationID,
		result.UserID,
		result.ProgramID,
		doc,
		result.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (s *PostgresStore) GetGapAnalysis(ctx context.Context, gapAnalysisID string) (*models.GapAnalysisResult, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM gap_analyses WHERE id = $1`, gapAnalysisID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewGapAnalysisNotFoundError(gapAnalysisID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("gap_analysis", err)
	}

	var result models.GapAnalysisResult
	if err := json.Unmarshal(doc, &result); err != nil {
		return nil, errors.NewQueryExecutionFailedError("gap_analysis", err)
	}
	return &result, nil
}

var _ Store = (*PostgresStore)(nil)
