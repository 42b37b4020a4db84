// internal/gapanalysis/analyzer.go
package gapanalysis

import (
	"fmt"
	"time"

	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
)

// gapThreshold is the criterion score below which a gap is reported.
const gapThreshold = 80

// Analyzer identifies the gaps between a profile and a program's
// requirements and suggests ways to close them.
type Analyzer struct {
	log     logger.Logger
	version string
}

func NewAnalyzer(log logger.Logger, algorithmVersion string) *Analyzer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if algorithmVersion == "" {
		algorithmVersion = "1.0"
	}
	return &Analyzer{log: log, version: algorithmVersion}
}

// Analyze inspects the criterion scores of a match and reports a gap for
// every criterion scoring below the threshold. Criteria removed from the
// program since scoring are skipped.
func (a *Analyzer) Analyze(profile *models.Profile, program *models.Program, match *models.MatchResult) *models.GapAnalysisResult {
	start := time.Now()

	result := &models.GapAnalysisResult{
		UserID:           profile.UserID,
		ProgramID:        program.ProgramID,
		RecommendationID: match.RecommendationID,
		Gaps:             []models.Gap{},
		AlgorithmVersion: a.version,
	}

	for _, cs := range match.CriterionScores {
		if cs.Score >= gapThreshold {
			continue
		}
		criterion, ok := findCriterion(program, cs.CriterionID)
		if !ok {
			continue
		}
		result.Gaps = append(result.Gaps, models.Gap{
			CriterionID:            cs.CriterionID,
			CriterionName:          cs.CriterionName,
			Category:               cs.Category,
			Severity:               gapSeverity(cs.Score, criterion),
			UserValue:              cs.UserValue,
			RequiredValue:          cs.RequiredValue,
			Description:            gapDescription(cs, criterion),
			ImprovementSuggestions: suggestionsFor(criterion.Category),
		})
	}

	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	a.log.Debug("gap analysis complete", map[string]interface{}{
		"userId":    profile.UserID,
		"programId": program.ProgramID,
		"gaps":      len(result.Gaps),
	})

	return result
}

func findCriterion(program *models.Program, criterionID string) (models.EligibilityCriterion, bool) {
	for _, c := range program.EligibilityCriteria {
		if c.CriterionID == criterionID {
			return c, true
		}
	}
	return models.EligibilityCriterion{}, false
}

func gapSeverity(score float64, criterion models.EligibilityCriterion) models.GapSeverity {
	if criterion.IsMandatory && score < 30 {
		return models.SeverityCritical
	}
	if criterion.IsMandatory && score < 60 {
		return models.SeverityMajor
	}
	if !criterion.IsMandatory && score < 30 {
		return models.SeverityModerate
	}
	return models.SeverityMinor
}

func gapDescription(cs models.CriterionScore, criterion models.EligibilityCriterion) string {
	name := lowerName(criterion.Name)

	switch criterion.Type {
	case models.TypeMinimum:
		return fmt.Sprintf("Your %s (%v) is below the minimum requirement of %v.", name, formatValue(cs.UserValue), formatValue(cs.RequiredValue))
	case models.TypeMaximum:
		return fmt.Sprintf("Your %s (%v) exceeds the maximum limit of %v.", name, formatValue(cs.UserValue), formatValue(cs.RequiredValue))
	case models.TypeRange:
		min, max := rangeBounds(cs.RequiredValue)
		return fmt.Sprintf("Your %s (%v) is outside the required range of %v to %v.", name, formatValue(cs.UserValue), min, max)
	case models.TypeExact:
		return fmt.Sprintf("Your %s (%v) does not match the required value of %v.", name, formatValue(cs.UserValue), formatValue(cs.RequiredValue))
	case models.TypeBoolean:
		return fmt.Sprintf("The requirement for %s is not met.", name)
	case models.TypeList:
		return fmt.Sprintf("Your %s does not include all required values.", name)
	case models.TypePointsTable:
		return fmt.Sprintf("Your %s does not earn enough points in the points table.", name)
	default:
		return fmt.Sprintf("There is a gap in meeting the requirement for %s.", name)
	}
}
