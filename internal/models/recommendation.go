// internal/models/recommendation.go
package models

import "time"

// RecommendationStatus tracks the lifecycle of a recommendation run.
type RecommendationStatus string

const (
	RecommendationProcessing RecommendationStatus = "processing"
	RecommendationCompleted  RecommendationStatus = "completed"
	RecommendationFailed     RecommendationStatus = "failed"
)

// MatchCategory buckets an overall score for display.
type MatchCategory string

const (
	MatchExcellent MatchCategory = "excellent"
	MatchGood      MatchCategory = "good"
	MatchModerate  MatchCategory = "moderate"
	MatchLow       MatchCategory = "low"
)

// CriterionHighlight is a criterion surfaced as a strength or weakness.
type CriterionHighlight struct {
	CriterionID   string  `json:"criterionId"`
	CriterionName string  `json:"criterionName"`
	Score         float64 `json:"score"`
	Description   string  `json:"description,omitempty"`
}

// RecommendationResult is one ranked program inside a recommendation set.
type RecommendationResult struct {
	ProgramID               string               `json:"programId"`
	CountryID               string               `json:"countryId"`
	MatchScore              float64              `json:"matchScore"`
	Rank                    int                  `json:"rank"`
	MatchCategory           MatchCategory        `json:"matchCategory"`
	KeyStrengths            []CriterionHighlight `json:"keyStrengths,omitempty"`
	KeyWeaknesses           []CriterionHighlight `json:"keyWeaknesses,omitempty"`
	MatchID                 string               `json:"matchId,omitempty"`
	GapAnalysisID           string               `json:"gapAnalysisId,omitempty"`
	EstimatedProcessingTime *MonthRange          `json:"estimatedProcessingTime,omitempty"`
	EstimatedCost           *MoneyRange          `json:"estimatedCost,omitempty"`
	SuccessProbability      float64              `json:"successProbability"`
	Notes                   string               `json:"notes,omitempty"`
}

// RecommendationError captures why a run failed.
type RecommendationError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Feedback is a user's rating of one recommended program.
type Feedback struct {
	ProgramID       string    `json:"programId"`
	RelevanceRating int       `json:"relevanceRating"`
	Comments        string    `json:"comments,omitempty"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// Recommendation is a full recommendation run for one user session.
type Recommendation struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"userId"`
	SessionID        string                 `json:"sessionId,omitempty"`
	Status           RecommendationStatus   `json:"status"`
	Results          []RecommendationResult `json:"recommendationResults,omitempty"`
	UserPreferences  map[string]interface{} `json:"userPreferences,omitempty"`
	AlgorithmVersion string                 `json:"algorithmVersion,omitempty"`
	ProcessingTimeMs int64                  `json:"processingTime"`
	IsArchived       bool                   `json:"isArchived"`
	Error            *RecommendationError   `json:"error,omitempty"`
	Feedback         []Feedback             `json:"feedback,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	CompletedAt      *time.Time             `json:"completedAt,omitempty"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}
