// internal/workers/data-access/query-postgresql/queries/profile.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func UserProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok || userID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var doc []byte
	err := db.QueryRowContext(ctx, `
		SELECT doc FROM profiles WHERE user_id = $1`, userID).Scan(&doc)
	if err != nil {
		return nil, 0, 0, err
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return profile, 1, execTime, nil
}
