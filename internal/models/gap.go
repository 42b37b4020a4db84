// internal/models/gap.go
package models

import "time"

// GapSeverity ranks how badly a criterion shortfall hurts eligibility.
type GapSeverity string

const (
	SeverityMinor    GapSeverity = "minor"
	SeverityModerate GapSeverity = "moderate"
	SeverityMajor    GapSeverity = "major"
	SeverityCritical GapSeverity = "critical"
)

// SuggestionDifficulty estimates the effort of an improvement suggestion.
type SuggestionDifficulty string

const (
	DifficultyEasy          SuggestionDifficulty = "easy"
	DifficultyModerate      SuggestionDifficulty = "moderate"
	DifficultyDifficult     SuggestionDifficulty = "difficult"
	DifficultyVeryDifficult SuggestionDifficulty = "very_difficult"
)

// TimeEstimate is a coarse duration such as {2, "weeks"} or {1, "years"}.
type TimeEstimate struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

type SuggestionStep struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
}

type SuggestionResource struct {
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ImprovementSuggestion tells the user one concrete way to close a gap.
type ImprovementSuggestion struct {
	Title                  string               `json:"title"`
	Description            string               `json:"description"`
	Difficulty             SuggestionDifficulty `json:"difficulty"`
	EstimatedTimeToResolve *TimeEstimate        `json:"estimatedTimeToResolve,omitempty"`
	EstimatedCost          *MoneyRange          `json:"estimatedCost,omitempty"`
	PotentialImpact        float64              `json:"potentialImpact"`
	Steps                  []SuggestionStep     `json:"steps,omitempty"`
	Resources              []SuggestionResource `json:"resources,omitempty"`
	Alternatives           []string             `json:"alternatives,omitempty"`
}

// Gap is one criterion where the user's score fell below the completeness
// threshold, with suggestions on how to close it.
type Gap struct {
	CriterionID            string                  `json:"criterionId"`
	CriterionName          string                  `json:"criterionName"`
	Category               CriterionCategory       `json:"category"`
	Severity               GapSeverity             `json:"severity"`
	UserValue              interface{}             `json:"userValue,omitempty"`
	RequiredValue          interface{}             `json:"requiredValue,omitempty"`
	Description            string                  `json:"description"`
	ImprovementSuggestions []ImprovementSuggestion `json:"improvementSuggestions,omitempty"`
}

// AlternativeProgram is a better-fitting program surfaced by gap analysis.
type AlternativeProgram struct {
	ProgramID        string   `json:"programId"`
	ProgramName      string   `json:"programName"`
	CountryID        string   `json:"countryId"`
	MatchScore       float64  `json:"matchScore"`
	GapCount         int      `json:"gapCount"`
	KeyAdvantages    []string `json:"keyAdvantages,omitempty"`
	KeyDisadvantages []string `json:"keyDisadvantages,omitempty"`
}

// GapAnalysisResult holds the ranked gaps and alternative programs for one
// match.
type GapAnalysisResult struct {
	ID                  string               `json:"id,omitempty"`
	UserID              string               `json:"userId"`
	ProgramID           string               `json:"programId"`
	RecommendationID    string               `json:"recommendationId,omitempty"`
	Gaps                []Gap                `json:"gaps"`
	AlternativePrograms []AlternativeProgram `json:"alternativePrograms,omitempty"`
	AlgorithmVersion    string               `json:"algorithmVersion,omitempty"`
	ProcessingTimeMs    int64                `json:"processingTime"`
	CreatedAt           time.Time            `json:"createdAt,omitempty"`
}
