// internal/recommendation/service_test.go
package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/gapanalysis"
	"migratio-workers/internal/models"
	"migratio-workers/internal/scoring"
)

type fakeProfiles struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, errors.NewProfileNotFoundError(userID)
	}
	return profile, nil
}

type fakeCatalog struct {
	programs []models.Program
}

func (f *fakeCatalog) ListActivePrograms(_ context.Context) ([]models.Program, error) {
	return f.programs, nil
}

func (f *fakeCatalog) GetProgramDetails(_ context.Context, programID string) (*models.Program, error) {
	for i := range f.programs {
		if f.programs[i].ProgramID == programID {
			return &f.programs[i], nil
		}
	}
	return nil, errors.NewResourceNotFoundError("program catalog", programID)
}

type memStore struct {
	recommendations map[string]*models.Recommendation
	matches         map[string]*models.MatchResult
	gapAnalyses     map[string]*models.GapAnalysisResult
	savedMatchOrder []string
	failedWith      *models.RecommendationError
}

func newMemStore() *memStore {
	return &memStore{
		recommendations: map[string]*models.Recommendation{},
		matches:         map[string]*models.MatchResult{},
		gapAnalyses:     map[string]*models.GapAnalysisResult{},
	}
}

func (m *memStore) CreateRecommendation(_ context.Context, rec *models.Recommendation) error {
	clone := *rec
	m.recommendations[rec.ID] = &clone
	return nil
}

func (m *memStore) UpdateRecommendation(_ context.Context, rec *models.Recommendation) error {
	clone := *rec
	m.recommendations[rec.ID] = &clone
	return nil
}

func (m *memStore) MarkRecommendationFailed(_ context.Context, recommendationID string, recErr *models.RecommendationError) error {
	rec, ok := m.recommendations[recommendationID]
	if !ok {
		return errors.NewRecommendationNotFoundError(recommendationID)
	}
	rec.Status = models.RecommendationFailed
	rec.Error = recErr
	m.failedWith = recErr
	return nil
}

func (m *memStore) GetRecommendation(_ context.Context, recommendationID string) (*models.Recommendation, error) {
	rec, ok := m.recommendations[recommendationID]
	if !ok {
		return nil, errors.NewRecommendationNotFoundError(recommendationID)
	}
	return rec, nil
}

func (m *memStore) ListRecommendations(_ context.Context, userID string, q ListQuery) ([]models.Recommendation, error) {
	var out []models.Recommendation
	for _, rec := range m.recommendations {
		if rec.UserID != userID {
			continue
		}
		if q.Status != "" && rec.Status != q.Status {
			continue
		}
		if !q.IncludeArchived && rec.IsArchived {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (m *memStore) ArchiveRecommendation(_ context.Context, recommendationID, userID string) (*models.Recommendation, error) {
	rec, ok := m.recommendations[recommendationID]
	if !ok || rec.UserID != userID {
		return nil, errors.NewRecommendationNotFoundError(recommendationID)
	}
	rec.IsArchived = true
	return rec, nil
}

func (m *memStore) AddFeedback(_ context.Context, recommendationID string, feedback models.Feedback) (*models.Recommendation, error) {
	rec, ok := m.recommendations[recommendationID]
	if !ok {
		return nil, errors.NewRecommendationNotFoundError(recommendationID)
	}
	rec.Feedback = append(rec.Feedback, feedback)
	return rec, nil
}

func (m *memStore) SaveMatchResult(_ context.Context, match *models.MatchResult) error {
	clone := *match
	m.matches[match.ID] = &clone
	m.savedMatchOrder = append(m.savedMatchOrder, match.ProgramID)
	return nil
}

func (m *memStore) GetMatchResult(_ context.Context, matchID string) (*models.MatchResult, error) {
	match, ok := m.matches[matchID]
	if !ok {
		return nil, errors.NewMatchNotFoundError(matchID)
	}
	return match, nil
}

func (m *memStore) SaveGapAnalysis(_ context.Context, result *models.GapAnalysisResult) error {
	clone := *result
	m.gapAnalyses[result.ID] = &clone
	return nil
}

func (m *memStore) GetGapAnalysis(_ context.Context, gapAnalysisID string) (*models.GapAnalysisResult, error) {
	result, ok := m.gapAnalyses[gapAnalysisID]
	if !ok {
		return nil, errors.NewGapAnalysisNotFoundError(gapAnalysisID)
	}
	return result, nil
}

func strongProfile() *models.Profile {
	dob := time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC)
	jobStart := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Profile{
		UserID:       "user-1",
		PersonalInfo: models.PersonalInfo{DateOfBirth: &dob, Email: "user@example.com"},
		Education: []models.EducationEntry{
			{Level: models.EducationMaster},
		},
		WorkExperience: []models.WorkExperienceEntry{
			{Occupation: "Engineer", StartDate: jobStart, IsCurrentJob: true},
		},
		LanguageProficiency: []models.LanguageProficiencyEntry{
			{Language: "english", OverallScore: 8},
		},
		FinancialInfo: &models.FinancialInfo{NetWorth: 50000},
	}
}

func catalogProgram(id, country string, requiredFunds float64) models.Program {
	return models.Program{
		ProgramID: id,
		CountryID: country,
		Name:      "Program " + id,
		Category:  "skilled-worker",
		Active:    true,
		EligibilityCriteria: []models.EligibilityCriterion{
			{
				CriterionID: id + "_age",
				Name:        "Age",
				Category:    models.CategoryAge,
				Type:        models.TypeRange,
				Value:       map[string]interface{}{"min": float64(18), "max": float64(45)},
				IsMandatory: true,
			},
			{
				CriterionID: id + "_funds",
				Name:        "Settlement Funds",
				Category:    models.CategoryFinancial,
				Type:        models.TypeMinimum,
				Value:       requiredFunds,
				Field:       models.FieldNetWorth,
				IsMandatory: true,
			},
		},
		Details: &models.ProgramDetails{
			ProcessingTime: &models.MonthRange{Min: 6, Max: 12},
			TotalCost:      &models.MoneyRange{Min: 2000, Max: 4000, Currency: "USD"},
			SuccessRate:    &models.SuccessRate{Value: 80},
		},
	}
}

func newTestService(t *testing.T, profiles *fakeProfiles, catalog *fakeCatalog, store Store) *Service {
	t.Helper()
	log := logger.NewTestLogger(t)
	return NewService(
		profiles,
		catalog,
		store,
		scoring.NewEngine(log),
		gapanalysis.NewAnalyzer(log, "1.0"),
		log,
		"1.0",
	)
}

func TestGenerate(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"user-1": strongProfile()}}
	catalog := &fakeCatalog{programs: []models.Program{
		catalogProgram("prog-easy", "ca", 10000),
		catalogProgram("prog-hard", "au", 500000),
		catalogProgram("prog-mid", "uk", 40000),
	}}
	store := newMemStore()
	svc := newTestService(t, profiles, catalog, store)

	rec, err := svc.Generate(context.Background(), "user-1", "session-1", GenerateOptions{})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, models.RecommendationCompleted, rec.Status)
	assert.NotNil(t, rec.CompletedAt)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "session-1", rec.SessionID)

	// One match per program, persisted in catalog order.
	assert.Equal(t, []string{"prog-easy", "prog-hard", "prog-mid"}, store.savedMatchOrder)
	assert.Len(t, store.matches, 3)

	// All programs fit the default top 10, ranked by descending score.
	require.Len(t, rec.Results, 3)
	for i, result := range rec.Results {
		assert.Equal(t, i+1, result.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, rec.Results[i-1].MatchScore, result.MatchScore)
		}
		assert.NotEmpty(t, result.MatchID)
		assert.NotEmpty(t, result.GapAnalysisID)
		assert.NotEmpty(t, result.Notes)
		assert.NotEmpty(t, result.MatchCategory)
	}
	assert.Equal(t, "prog-easy", rec.Results[0].ProgramID)

	// Gap analyses persisted for every ranked result.
	assert.Len(t, store.gapAnalyses, 3)

	// The stored copy reflects the completed run.
	stored, err := store.GetRecommendation(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationCompleted, stored.Status)
	assert.Len(t, stored.Results, 3)
}

func TestGenerate_MaxResultsLimitsGapAnalysis(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"user-1": strongProfile()}}
	catalog := &fakeCatalog{programs: []models.Program{
		catalogProgram("prog-a", "ca", 10000),
		catalogProgram("prog-b", "ca", 20000),
		catalogProgram("prog-c", "ca", 30000),
	}}
	store := newMemStore()
	svc := newTestService(t, profiles, catalog, store)

	rec, err := svc.Generate(context.Background(), "user-1", "session-1", GenerateOptions{MaxResults: 2})
	require.NoError(t, err)

	assert.Len(t, rec.Results, 2)
	assert.Len(t, store.matches, 3)
	assert.Len(t, store.gapAnalyses, 2)
}

func TestGenerate_ProfileNotFound(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{}}
	catalog := &fakeCatalog{programs: []models.Program{catalogProgram("prog-a", "ca", 10000)}}
	store := newMemStore()
	svc := newTestService(t, profiles, catalog, store)

	_, err := svc.Generate(context.Background(), "missing-user", "session-1", GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// The created recommendation is marked failed with the error attached.
	require.NotNil(t, store.failedWith)
	assert.Equal(t, string(errors.ErrCodeProfileNotFound), store.failedWith.Code)
}

func TestGenerate_NoActivePrograms(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"user-1": strongProfile()}}
	catalog := &fakeCatalog{}
	store := newMemStore()
	svc := newTestService(t, profiles, catalog, store)

	_, err := svc.Generate(context.Background(), "user-1", "session-1", GenerateOptions{})
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNoActivePrograms, stdErr.Code)
	require.NotNil(t, store.failedWith)
}

func TestSuccessProbability(t *testing.T) {
	program := &models.Program{
		Details: &models.ProgramDetails{SuccessRate: &models.SuccessRate{Value: 60}},
	}

	t.Run("averages with program success rate", func(t *testing.T) {
		match := &models.MatchResult{OverallScore: 80}
		assert.InDelta(t, 70, successProbability(match, program), 0.001)
	})

	t.Run("deducts per critical criterion", func(t *testing.T) {
		match := &models.MatchResult{
			OverallScore: 80,
			CriterionScores: []models.CriterionScore{
				{Score: 20, Impact: models.ImpactNegative},
				{Score: 25, Impact: models.ImpactNegative},
			},
		}
		assert.InDelta(t, 50, successProbability(match, program), 0.001)
	})

	t.Run("clamped to zero", func(t *testing.T) {
		match := &models.MatchResult{
			OverallScore: 10,
			CriterionScores: []models.CriterionScore{
				{Score: 5, Impact: models.ImpactNegative},
				{Score: 10, Impact: models.ImpactNegative},
				{Score: 15, Impact: models.ImpactNegative},
				{Score: 20, Impact: models.ImpactNegative},
			},
		}
		assert.Equal(t, float64(0), successProbability(match, program))
	})

	t.Run("no success rate uses raw score", func(t *testing.T) {
		match := &models.MatchResult{OverallScore: 75}
		assert.InDelta(t, 75, successProbability(match, &models.Program{}), 0.001)
	})
}

func TestRecommendationNotes(t *testing.T) {
	program := &models.Program{
		Details: &models.ProgramDetails{
			ProcessingTime:           &models.MonthRange{Min: 6, Max: 10},
			PathToPermanentResidence: &models.PRPathway{HasPathway: true, TimeToEligibility: 36},
		},
	}

	match := &models.MatchResult{
		OverallScore: 85,
		CriterionScores: []models.CriterionScore{
			{Score: 20, Impact: models.ImpactNegative},
		},
	}

	notes := recommendationNotes(match, program)
	assert.Contains(t, notes, "excellent match")
	assert.Contains(t, notes, "1 critical criteria")
	assert.Contains(t, notes, "approximately 8 months")
	assert.Contains(t, notes, "permanent residence after approximately 36 months")

	t.Run("low score wording", func(t *testing.T) {
		low := &models.MatchResult{OverallScore: 20}
		assert.Contains(t, recommendationNotes(low, &models.Program{}), "low match")
	})
}

func TestTopHighlights(t *testing.T) {
	scores := []models.CriterionScore{
		{CriterionID: "a", Score: 95, Impact: models.ImpactPositive},
		{CriterionID: "b", Score: 85, Impact: models.ImpactPositive},
		{CriterionID: "c", Score: 99, Impact: models.ImpactPositive},
		{CriterionID: "d", Score: 90, Impact: models.ImpactPositive},
		{CriterionID: "e", Score: 10, Impact: models.ImpactNegative},
		{CriterionID: "f", Score: 40, Impact: models.ImpactNegative},
		{CriterionID: "g", Score: 70, Impact: models.ImpactNeutral},
	}

	strengths := topHighlights(scores, models.ImpactPositive)
	require.Len(t, strengths, 3)
	assert.Equal(t, "c", strengths[0].CriterionID)
	assert.Equal(t, "a", strengths[1].CriterionID)
	assert.Equal(t, "d", strengths[2].CriterionID)

	weaknesses := topHighlights(scores, models.ImpactNegative)
	require.Len(t, weaknesses, 2)
	assert.Equal(t, "e", weaknesses[0].CriterionID)
	assert.Equal(t, "f", weaknesses[1].CriterionID)
}

func TestMatchCategory(t *testing.T) {
	assert.Equal(t, models.MatchExcellent, matchCategory(85))
	assert.Equal(t, models.MatchExcellent, matchCategory(80))
	assert.Equal(t, models.MatchGood, matchCategory(65))
	assert.Equal(t, models.MatchModerate, matchCategory(45))
	assert.Equal(t, models.MatchLow, matchCategory(20))
}

func TestDetails(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"user-1": strongProfile()}}
	catalog := &fakeCatalog{programs: []models.Program{catalogProgram("prog-a", "ca", 10000)}}
	store := newMemStore()
	svc := newTestService(t, profiles, catalog, store)

	rec, err := svc.Generate(context.Background(), "user-1", "session-1", GenerateOptions{})
	require.NoError(t, err)

	details, err := svc.Details(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Len(t, details.EnrichedResults, 1)

	enriched := details.EnrichedResults[0]
	assert.Equal(t, "Program prog-a", enriched.Program.Name)
	assert.Equal(t, "skilled-worker", enriched.Program.Category)
	require.NotNil(t, enriched.MatchDetails)
	assert.NotEmpty(t, enriched.MatchDetails.CriterionScores)

	t.Run("unknown recommendation", func(t *testing.T) {
		_, err := svc.Details(context.Background(), "nope")
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestArchiveAndFeedback(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{"user-1": strongProfile()}}
	catalog := &fakeCatalog{programs: []models.Program{catalogProgram("prog-a", "ca", 10000)}}
	store := newMemStore()
	svc := newTestService(t, profiles, catalog, store)

	rec, err := svc.Generate(context.Background(), "user-1", "session-1", GenerateOptions{})
	require.NoError(t, err)

	t.Run("archive by owner", func(t *testing.T) {
		archived, err := svc.Archive(context.Background(), rec.ID, "user-1")
		require.NoError(t, err)
		assert.True(t, archived.IsArchived)
	})

	t.Run("archive by other user reports not found", func(t *testing.T) {
		_, err := svc.Archive(context.Background(), rec.ID, "user-2")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("valid feedback", func(t *testing.T) {
		updated, err := svc.AddFeedback(context.Background(), rec.ID, "prog-a", 4, "looks right")
		require.NoError(t, err)
		require.Len(t, updated.Feedback, 1)
		assert.Equal(t, 4, updated.Feedback[0].RelevanceRating)
		assert.False(t, updated.Feedback[0].SubmittedAt.IsZero())
	})

	t.Run("rating out of range", func(t *testing.T) {
		_, err := svc.AddFeedback(context.Background(), rec.ID, "prog-a", 9, "")
		require.Error(t, err)
		stdErr, ok := err.(*errors.StandardError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInvalidFeedback, stdErr.Code)
	})
}

func TestList_FiltersAndSorting(t *testing.T) {
	store := newMemStore()
	now := time.Now().UTC()
	min6, min18 := &models.MonthRange{Min: 4, Max: 8}, &models.MonthRange{Min: 14, Max: 22}
	store.recommendations["rec-1"] = &models.Recommendation{
		ID:     "rec-1",
		UserID: "user-1",
		Status: models.RecommendationCompleted,
		Results: []models.RecommendationResult{
			{ProgramID: "a", CountryID: "ca", MatchScore: 90, Rank: 1, EstimatedProcessingTime: min18, EstimatedCost: &models.MoneyRange{Min: 8000, Max: 12000}},
			{ProgramID: "b", CountryID: "au", MatchScore: 70, Rank: 2, EstimatedProcessingTime: min6, EstimatedCost: &models.MoneyRange{Min: 1000, Max: 3000}},
			{ProgramID: "c", CountryID: "ca", MatchScore: 55, Rank: 3, EstimatedProcessingTime: min6, EstimatedCost: &models.MoneyRange{Min: 2000, Max: 4000}},
		},
		CreatedAt: now,
	}
	svc := newTestService(t, &fakeProfiles{}, &fakeCatalog{}, store)

	t.Run("country filter", func(t *testing.T) {
		recs, err := svc.List(context.Background(), "user-1", ListOptions{
			Filters: &ResultFilters{Countries: []string{"ca"}},
		})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		require.Len(t, recs[0].Results, 2)
		for _, result := range recs[0].Results {
			assert.Equal(t, "ca", result.CountryID)
		}
	})

	t.Run("min match score filter", func(t *testing.T) {
		recs, err := svc.List(context.Background(), "user-1", ListOptions{
			Filters: &ResultFilters{MinMatchScore: 60},
		})
		require.NoError(t, err)
		require.Len(t, recs[0].Results, 2)
	})

	t.Run("max processing time filter", func(t *testing.T) {
		recs, err := svc.List(context.Background(), "user-1", ListOptions{
			Filters: &ResultFilters{MaxProcessingTime: 12},
		})
		require.NoError(t, err)
		require.Len(t, recs[0].Results, 2)
		for _, result := range recs[0].Results {
			assert.LessOrEqual(t, models.AverageMonths(result.EstimatedProcessingTime), float64(12))
		}
	})

	t.Run("max cost filter", func(t *testing.T) {
		recs, err := svc.List(context.Background(), "user-1", ListOptions{
			Filters: &ResultFilters{MaxCost: 5000},
		})
		require.NoError(t, err)
		require.Len(t, recs[0].Results, 2)
	})

	t.Run("sort by cost ascending reassigns ranks", func(t *testing.T) {
		recs, err := svc.List(context.Background(), "user-1", ListOptions{
			SortBy:        "cost",
			SortDirection: "asc",
		})
		require.NoError(t, err)
		results := recs[0].Results
		require.Len(t, results, 3)
		assert.Equal(t, "b", results[0].ProgramID)
		assert.Equal(t, "c", results[1].ProgramID)
		assert.Equal(t, "a", results[2].ProgramID)
		for i, result := range results {
			assert.Equal(t, i+1, result.Rank)
		}
	})

	t.Run("defaults exclude non-completed", func(t *testing.T) {
		store.recommendations["rec-2"] = &models.Recommendation{
			ID: "rec-2", UserID: "user-1", Status: models.RecommendationProcessing,
		}
		recs, err := svc.List(context.Background(), "user-1", ListOptions{})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "rec-1", recs[0].ID)
	})
}
