// internal/workers/data-access/query-postgresql/queries/program.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func ProgramDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	programID, ok := params["programId"].(string)
	if !ok || programID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var doc []byte
	err := db.QueryRowContext(ctx, `
		SELECT doc FROM programs WHERE program_id = $1`, programID).Scan(&doc)
	if err != nil {
		return nil, 0, 0, err
	}

	var program map[string]interface{}
	if err := json.Unmarshal(doc, &program); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return program, 1, execTime, nil
}
