// internal/recommendation/service.go
package recommendation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/gapanalysis"
	"migratio-workers/internal/models"
	"migratio-workers/internal/scoring"
)

// ProfileProvider fetches applicant profiles from the user service.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// ProgramCatalog fetches immigration programs from the program service.
type ProgramCatalog interface {
	ListActivePrograms(ctx context.Context) ([]models.Program, error)
	GetProgramDetails(ctx context.Context, programID string) (*models.Program, error)
}

// ListQuery narrows a recommendation listing at the store level.
type ListQuery struct {
	SessionID       string
	Status          models.RecommendationStatus
	IncludeArchived bool
	Limit           int
}

// Store persists recommendations, match results and gap analyses.
type Store interface {
	CreateRecommendation(ctx context.Context, rec *models.Recommendation) error
	UpdateRecommendation(ctx context.Context, rec *models.Recommendation) error
	MarkRecommendationFailed(ctx context.Context, recommendationID string, recErr *models.RecommendationError) error
	GetRecommendation(ctx context.Context, recommendationID string) (*models.Recommendation, error)
	ListRecommendations(ctx context.Context, userID string, q ListQuery) ([]models.Recommendation, error)
	ArchiveRecommendation(ctx context.Context, recommendationID, userID string) (*models.Recommendation, error)
	AddFeedback(ctx context.Context, recommendationID string, feedback models.Feedback) (*models.Recommendation, error)
	SaveMatchResult(ctx context.Context, match *models.MatchResult) error
	GetMatchResult(ctx context.Context, matchID string) (*models.MatchResult, error)
	SaveGapAnalysis(ctx context.Context, result *models.GapAnalysisResult) error
	GetGapAnalysis(ctx context.Context, gapAnalysisID string) (*models.GapAnalysisResult, error)
}

const (
	defaultMaxResults      = 10
	maxAlternativePrograms = 3
)

// Service orchestrates scoring, gap analysis and persistence into full
// recommendation runs.
type Service struct {
	profiles ProfileProvider
	catalog  ProgramCatalog
	store    Store
	engine   *scoring.Engine
	analyzer *gapanalysis.Analyzer
	log      logger.Logger
	version  string
}

func NewService(profiles ProfileProvider, catalog ProgramCatalog, store Store, engine *scoring.Engine, analyzer *gapanalysis.Analyzer, log logger.Logger, algorithmVersion string) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if algorithmVersion == "" {
		algorithmVersion = "1.0"
	}
	return &Service{
		profiles: profiles,
		catalog:  catalog,
		store:    store,
		engine:   engine,
		analyzer: analyzer,
		log:      log,
		version:  algorithmVersion,
	}
}

// GenerateOptions tune a single recommendation run.
type GenerateOptions struct {
	MaxResults  int                    `json:"maxResults,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

// Generate scores the full active program catalog for a user, runs gap
// analysis over the top matches and persists the assembled recommendation.
// Any failure after the recommendation record is created marks it failed
// before the error is returned.
func (s *Service) Generate(ctx context.Context, userID, sessionID string, opts GenerateOptions) (*models.Recommendation, error) {
	start := time.Now()

	rec := &models.Recommendation{
		ID:               uuid.New().String(),
		UserID:           userID,
		SessionID:        sessionID,
		Status:           models.RecommendationProcessing,
		UserPreferences:  opts.Preferences,
		AlgorithmVersion: s.version,
		CreatedAt:        start.UTC(),
		UpdatedAt:        start.UTC(),
	}
	if err := s.store.CreateRecommendation(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.generate(ctx, rec, opts, start); err != nil {
		s.markFailed(ctx, rec.ID, err)
		return nil, err
	}
	return rec, nil
}

func (s *Service) generate(ctx context.Context, rec *models.Recommendation, opts GenerateOptions, start time.Time) error {
	profile, err := s.profiles.GetProfile(ctx, rec.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return errors.NewProfileNotFoundError(rec.UserID)
	}

	programs, err := s.catalog.ListActivePrograms(ctx)
	if err != nil {
		return err
	}
	if len(programs) == 0 {
		return errors.NewNoActiveProgramsError()
	}

	// Sequential scoring keeps persistence ordering deterministic.
	type scoredProgram struct {
		match   *models.MatchResult
		program *models.Program
	}
	scored := make([]scoredProgram, 0, len(programs))
	for i := range programs {
		program := &programs[i]
		match := s.engine.CalculateMatchScore(profile, program, scoring.Options{ApplyPreferenceAdjustments: true})
		match.ID = uuid.New().String()
		match.RecommendationID = rec.ID
		match.CreatedAt = time.Now().UTC()
		if err := s.store.SaveMatchResult(ctx, match); err != nil {
			return err
		}
		scored = append(scored, scoredProgram{match: match, program: program})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].match.OverallScore > scored[j].match.OverallScore
	})

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > len(scored) {
		maxResults = len(scored)
	}
	top := scored[:maxResults]

	results := make([]models.RecommendationResult, 0, len(top))
	for rank, entry := range top {
		analysis := s.analyzer.Analyze(profile, entry.program, entry.match)
		alternatives := s.analyzer.FindAlternativePrograms(profile, programs, entry.program, entry.match, time.Time{})
		if len(alternatives) > maxAlternativePrograms {
			alternatives = alternatives[:maxAlternativePrograms]
		}
		analysis.AlternativePrograms = alternatives
		analysis.ID = uuid.New().String()
		analysis.CreatedAt = time.Now().UTC()
		if err := s.store.SaveGapAnalysis(ctx, analysis); err != nil {
			return err
		}

		results = append(results, buildResult(rank+1, entry.match, entry.program, analysis.ID))
	}

	completedAt := time.Now().UTC()
	rec.Results = results
	rec.Status = models.RecommendationCompleted
	rec.CompletedAt = &completedAt
	rec.ProcessingTimeMs = time.Since(start).Milliseconds()
	rec.UpdatedAt = completedAt

	if err := s.store.UpdateRecommendation(ctx, rec); err != nil {
		return err
	}

	s.log.Info("recommendation generated", map[string]interface{}{
		"recommendationId": rec.ID,
		"userId":           rec.UserID,
		"programsScored":   len(programs),
		"results":          len(results),
		"processingTimeMs": rec.ProcessingTimeMs,
	})
	return nil
}

func (s *Service) markFailed(ctx context.Context, recommendationID string, cause error) {
	recErr := &models.RecommendationError{Message: cause.Error()}
	if stdErr, ok := cause.(*errors.StandardError); ok {
		recErr.Code = string(stdErr.Code)
		recErr.Message = stdErr.Message
	}
	if err := s.store.MarkRecommendationFailed(ctx, recommendationID, recErr); err != nil {
		s.log.WithError(err).Error("failed to mark recommendation as failed", map[string]interface{}{
			"recommendationId": recommendationID,
		})
	}
}

func buildResult(rank int, match *models.MatchResult, program *models.Program, gapAnalysisID string) models.RecommendationResult {
	result := models.RecommendationResult{
		ProgramID:          program.ProgramID,
		CountryID:          program.CountryID,
		MatchScore:         match.OverallScore,
		Rank:               rank,
		MatchCategory:      matchCategory(match.OverallScore),
		KeyStrengths:       topHighlights(match.CriterionScores, models.ImpactPositive),
		KeyWeaknesses:      topHighlights(match.CriterionScores, models.ImpactNegative),
		MatchID:            match.ID,
		GapAnalysisID:      gapAnalysisID,
		SuccessProbability: successProbability(match, program),
		Notes:              recommendationNotes(match, program),
	}
	if program.Details != nil {
		result.EstimatedProcessingTime = program.Details.ProcessingTime
		result.EstimatedCost = program.Details.TotalCost
	}
	return result
}

func matchCategory(score float64) models.MatchCategory {
	switch {
	case score >= 80:
		return models.MatchExcellent
	case score >= 60:
		return models.MatchGood
	case score >= 40:
		return models.MatchModerate
	default:
		return models.MatchLow
	}
}

// topHighlights picks up to three criteria with the given impact: the
// strongest scores for strengths, the weakest for weaknesses.
func topHighlights(scores []models.CriterionScore, impact models.Impact) []models.CriterionHighlight {
	var filtered []models.CriterionScore
	for _, cs := range scores {
		if cs.Impact == impact {
			filtered = append(filtered, cs)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if impact == models.ImpactNegative {
			return filtered[i].Score < filtered[j].Score
		}
		return filtered[i].Score > filtered[j].Score
	})
	if len(filtered) > 3 {
		filtered = filtered[:3]
	}

	highlights := make([]models.CriterionHighlight, 0, len(filtered))
	for _, cs := range filtered {
		highlights = append(highlights, models.CriterionHighlight{
			CriterionID:   cs.CriterionID,
			CriterionName: cs.CriterionName,
			Score:         cs.Score,
			Description:   cs.Description,
		})
	}
	return highlights
}

func criticalCriteriaCount(match *models.MatchResult) int {
	count := 0
	for _, cs := range match.CriterionScores {
		if cs.Impact == models.ImpactNegative && cs.Score < 30 {
			count++
		}
	}
	return count
}

// successProbability starts from the overall score, averages in the
// program's stated success rate when available, and subtracts 10 points per
// critical unmet criterion.
func successProbability(match *models.MatchResult, program *models.Program) float64 {
	probability := match.OverallScore
	if program.Details != nil && program.Details.SuccessRate != nil && program.Details.SuccessRate.Value > 0 {
		probability = (probability + program.Details.SuccessRate.Value) / 2
	}
	probability -= float64(criticalCriteriaCount(match)) * 10
	if probability < 0 {
		return 0
	}
	if probability > 100 {
		return 100
	}
	return probability
}

func recommendationNotes(match *models.MatchResult, program *models.Program) string {
	notes := ""

	switch {
	case match.OverallScore >= 80:
		notes += "This program is an excellent match for your profile. "
	case match.OverallScore >= 60:
		notes += "This program is a good match for your profile. "
	case match.OverallScore >= 40:
		notes += "This program is a moderate match for your profile. Some improvements may be needed. "
	default:
		notes += "This program is a low match for your profile. Significant improvements would be needed. "
	}

	if critical := criticalCriteriaCount(match); critical > 0 {
		notes += fmt.Sprintf("There are %d critical criteria that need attention. ", critical)
	}

	if program.Details != nil {
		if program.Details.ProcessingTime != nil {
			notes += fmt.Sprintf("Average processing time is approximately %g months. ", models.AverageMonths(program.Details.ProcessingTime))
		}
		if pr := program.Details.PathToPermanentResidence; pr != nil && pr.HasPathway {
			notes += fmt.Sprintf("This program offers a pathway to permanent residence after approximately %g months. ", pr.TimeToEligibility)
		}
	}

	return notes
}
