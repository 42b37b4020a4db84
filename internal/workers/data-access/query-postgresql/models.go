// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "migratio-workers/internal/models"

type Input struct {
	QueryType        string                 `json:"queryType"`
	UserID           string                 `json:"userId,omitempty"`
	ProgramID        string                 `json:"programId,omitempty"`
	MatchID          string                 `json:"matchId,omitempty"`
	GapAnalysisID    string                 `json:"gapAnalysisId,omitempty"`
	RecommendationID string                 `json:"recommendationId,omitempty"`
	Filters          map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeUserProfile        = models.QueryUserProfile
	QueryTypeProgramDetails     = models.QueryProgramDetails
	QueryTypeMatchDetails       = models.QueryMatchDetails
	QueryTypeGapAnalysis        = models.QueryGapAnalysis
	QueryTypeRecommendationList = models.QueryRecommendationList
)
