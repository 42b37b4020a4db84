// internal/recommendation/details.go
package recommendation

import (
	"context"
	"fmt"
	"time"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/models"
)

// ProgramSummary is the display slice of a program attached to an enriched
// recommendation result.
type ProgramSummary struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	Subcategory     string `json:"subcategory,omitempty"`
	OfficialName    string `json:"officialName,omitempty"`
	OfficialWebsite string `json:"officialWebsite,omitempty"`
}

// MatchBreakdown carries the per-category and per-criterion scores of a
// match without the persistence envelope.
type MatchBreakdown struct {
	CategoryScores  []models.CategoryScore  `json:"categoryScores"`
	CriterionScores []models.CriterionScore `json:"criterionScores"`
}

// EnrichedResult is a recommendation result joined with its program summary
// and scoring breakdown.
type EnrichedResult struct {
	models.RecommendationResult
	Program      ProgramSummary  `json:"program"`
	MatchDetails *MatchBreakdown `json:"matchDetails,omitempty"`
}

// RecommendationDetails is a recommendation with its results enriched.
type RecommendationDetails struct {
	models.Recommendation
	EnrichedResults []EnrichedResult `json:"recommendationResults"`
}

// Details returns a recommendation with each result joined against the
// current program catalog and its stored match breakdown. Results whose
// program has since disappeared are dropped.
func (s *Service) Details(ctx context.Context, recommendationID string) (*RecommendationDetails, error) {
	rec, err := s.store.GetRecommendation(ctx, recommendationID)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedResult, 0, len(rec.Results))
	for _, result := range rec.Results {
		program, err := s.catalog.GetProgramDetails(ctx, result.ProgramID)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if program == nil {
			continue
		}

		entry := EnrichedResult{
			RecommendationResult: result,
			Program: ProgramSummary{
				Name:            program.Name,
				Description:     programDescription(program),
				Category:        program.Category,
				Subcategory:     program.Subcategory,
				OfficialName:    program.OfficialName,
				OfficialWebsite: program.OfficialWebsite,
			},
		}

		if result.MatchID != "" {
			match, err := s.store.GetMatchResult(ctx, result.MatchID)
			if err != nil && !errors.IsNotFound(err) {
				return nil, err
			}
			if match != nil {
				entry.MatchDetails = &MatchBreakdown{
					CategoryScores:  match.CategoryScores,
					CriterionScores: match.CriterionScores,
				}
			}
		}

		enriched = append(enriched, entry)
	}

	return &RecommendationDetails{Recommendation: *rec, EnrichedResults: enriched}, nil
}

func programDescription(program *models.Program) string {
	if program.ShortDescription != "" {
		return program.ShortDescription
	}
	return program.Description
}

// MatchDetails returns a stored match result by id.
func (s *Service) MatchDetails(ctx context.Context, matchID string) (*models.MatchResult, error) {
	match, err := s.store.GetMatchResult(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, errors.NewMatchNotFoundError(matchID)
	}
	return match, nil
}

// GapAnalysis returns a stored gap analysis by id.
func (s *Service) GapAnalysis(ctx context.Context, gapAnalysisID string) (*models.GapAnalysisResult, error) {
	result, err := s.store.GetGapAnalysis(ctx, gapAnalysisID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.NewGapAnalysisNotFoundError(gapAnalysisID)
	}
	return result, nil
}

// Archive marks a recommendation archived. Ownership is enforced: archiving
// another user's recommendation reports not-found.
func (s *Service) Archive(ctx context.Context, recommendationID, userID string) (*models.Recommendation, error) {
	return s.store.ArchiveRecommendation(ctx, recommendationID, userID)
}

// AddFeedback attaches a per-program relevance rating to a recommendation.
func (s *Service) AddFeedback(ctx context.Context, recommendationID, programID string, relevanceRating int, comments string) (*models.Recommendation, error) {
	if programID == "" {
		return nil, errors.NewInvalidFeedbackError("programId is required")
	}
	if relevanceRating < 1 || relevanceRating > 5 {
		return nil, errors.NewInvalidFeedbackError(fmt.Sprintf("relevanceRating must be between 1 and 5, got %d", relevanceRating))
	}

	return s.store.AddFeedback(ctx, recommendationID, models.Feedback{
		ProgramID:       programID,
		RelevanceRating: relevanceRating,
		Comments:        comments,
		SubmittedAt:     time.Now().UTC(),
	})
}
