// internal/models/query_types.go
package models

// QueryType identifies a named query handled by the query-postgresql worker.
type QueryType string

const (
	QueryUserProfile        QueryType = "user_profile"
	QueryProgramDetails     QueryType = "program_details"
	QueryMatchDetails       QueryType = "match_details"
	QueryGapAnalysis        QueryType = "gap_analysis"
	QueryRecommendationList QueryType = "recommendation_list"
)
