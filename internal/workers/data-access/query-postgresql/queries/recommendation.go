// internal/workers/data-access/query-postgresql/queries/recommendation.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"
)

func MatchDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	matchID, ok := params["matchId"].(string)
	if !ok || matchID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var doc []byte
	err := db.QueryRowContext(ctx, `
		SELECT doc FROM match_results WHERE id = $1`, matchID).Scan(&doc)
	if err != nil {
		return nil, 0, 0, err
	}

	var match map[string]interface{}
	if err := json.Unmarshal(doc, &match); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return match, 1, execTime, nil
}

func GapAnalysis(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	gapAnalysisID, ok := params["gapAnalysisId"].(string)
	if !ok || gapAnalysisID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var doc []byte
	err := db.QueryRowContext(ctx, `
		SELECT doc FROM gap_analyses WHERE id = $1`, gapAnalysisID).Scan(&doc)
	if err != nil {
		return nil, 0, 0, err
	}

	var analysis map[string]interface{}
	if err := json.Unmarshal(doc, &analysis); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return analysis, 1, execTime, nil
}

// RecommendationList supports optional sessionId, status, includeArchived
// and limit filters.
func RecommendationList(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok || userID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	filters, _ := params["filters"].(map[string]interface{})

	start := time.Now()

	query := `SELECT doc FROM recommendations WHERE user_id = $1`
	args := []interface{}{userID}

	if sessionID, ok := filters["sessionId"].(string); ok && sessionID != "" {
		args = append(args, sessionID)
		query += ` AND session_id = $` + strconv.Itoa(len(args))
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if includeArchived, _ := filters["includeArchived"].(bool); !includeArchived {
		query += ` AND is_archived = FALSE`
	}

	query += ` ORDER BY created_at DESC`

	limit := 10
	if raw, ok := filters["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, 0, err
		}
		var rec map[string]interface{}
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
