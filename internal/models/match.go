// internal/models/match.go
package models

import "time"

// Impact classifies how a criterion score affects the overall match.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNeutral  Impact = "neutral"
	ImpactNegative Impact = "negative"
)

// CriterionScore is the scored outcome of one eligibility criterion.
// UserValue and RequiredValue keep their decoded JSON shapes so the record
// round-trips through JSONB unchanged.
type CriterionScore struct {
	CriterionID   string            `json:"criterionId"`
	CriterionName string            `json:"criterionName"`
	Category      CriterionCategory `json:"category"`
	UserValue     interface{}       `json:"userValue,omitempty"`
	RequiredValue interface{}       `json:"requiredValue,omitempty"`
	Score         float64           `json:"score"`
	Weight        float64           `json:"weight"`
	Impact        Impact            `json:"impact"`
	Description   string            `json:"description,omitempty"`
}

// CategoryScore aggregates the criterion scores of one category.
// Weight is the number of criteria in the category.
type CategoryScore struct {
	Category    CriterionCategory `json:"category"`
	Score       float64           `json:"score"`
	Weight      float64           `json:"weight"`
	Description string            `json:"description,omitempty"`
}

// MatchResult is the immutable output of scoring one profile against one
// program. Exactly one CriterionScore exists per program criterion.
type MatchResult struct {
	ID               string           `json:"id,omitempty"`
	UserID           string           `json:"userId"`
	ProgramID        string           `json:"programId"`
	RecommendationID string           `json:"recommendationId,omitempty"`
	OverallScore     float64          `json:"overallScore"`
	CategoryScores   []CategoryScore  `json:"categoryScores"`
	CriterionScores  []CriterionScore `json:"criterionScores"`
	ProcessingTimeMs int64            `json:"processingTime"`
	CreatedAt        time.Time        `json:"createdAt,omitempty"`
}
