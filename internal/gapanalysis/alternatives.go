// internal/gapanalysis/alternatives.go
package gapanalysis

import (
	"fmt"
	"sort"
	"time"

	"migratio-workers/internal/models"
	"migratio-workers/internal/scoring"
)

// FindAlternativePrograms surfaces programs the user is more likely to
// qualify for than the one currently under analysis. Candidates are
// restricted to preferred destination countries when the profile states
// any, and must both clear a simplified match score of 50 and carry
// strictly fewer unmet criteria than the current match has critical gaps.
func (a *Analyzer) FindAlternativePrograms(profile *models.Profile, allPrograms []models.Program, current *models.Program, match *models.MatchResult, now time.Time) []models.AlternativeProgram {
	if now.IsZero() {
		now = time.Now()
	}

	candidates := allPrograms
	if prefs := profile.ImmigrationPreferences; prefs != nil && len(prefs.DestinationCountries) > 0 {
		candidates = nil
		for _, p := range allPrograms {
			for _, country := range prefs.DestinationCountries {
				if p.CountryID == country {
					candidates = append(candidates, p)
					break
				}
			}
		}
	}

	criticalGaps := 0
	for _, cs := range match.CriterionScores {
		if cs.Score < 30 && cs.Impact == models.ImpactNegative {
			criticalGaps++
		}
	}

	var alternatives []models.AlternativeProgram
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ProgramID == current.ProgramID {
			continue
		}
		if len(candidate.EligibilityCriteria) == 0 {
			continue
		}

		met, gapCount := 0, 0
		for _, criterion := range candidate.EligibilityCriteria {
			userValue := scoring.UserValue(profile, criterion, now)
			if meetsCriterion(userValue, criterion) {
				met++
			} else {
				gapCount++
			}
		}

		matchScore := float64(met) / float64(len(candidate.EligibilityCriteria)) * 100
		if matchScore < 50 || gapCount >= criticalGaps {
			continue
		}

		alternatives = append(alternatives, models.AlternativeProgram{
			ProgramID:        candidate.ProgramID,
			ProgramName:      candidate.Name,
			CountryID:        candidate.CountryID,
			MatchScore:       matchScore,
			GapCount:         gapCount,
			KeyAdvantages:    keyAdvantages(candidate, current),
			KeyDisadvantages: keyDisadvantages(candidate, current),
		})
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].MatchScore > alternatives[j].MatchScore
	})
	return alternatives
}

// meetsCriterion is a binary pass/fail check with no partial credit.
// Points-table criteria never pass here since partial points are not
// comparable to a threshold.
func meetsCriterion(userValue interface{}, criterion models.EligibilityCriterion) bool {
	if userValue == nil {
		return false
	}

	switch criterion.Type {
	case models.TypeMinimum:
		user, uok := asFloat(userValue)
		required, rok := asFloat(criterion.Value)
		return uok && rok && user >= required
	case models.TypeMaximum:
		user, uok := asFloat(userValue)
		required, rok := asFloat(criterion.Value)
		return uok && rok && user <= required
	case models.TypeRange:
		user, uok := asFloat(userValue)
		if !uok {
			return false
		}
		bounds, ok := criterion.Value.(map[string]interface{})
		if !ok {
			return false
		}
		min, minOK := asFloat(bounds["min"])
		max, maxOK := asFloat(bounds["max"])
		return minOK && maxOK && user >= min && user <= max
	case models.TypeExact, models.TypeBoolean:
		return scoring.ScoreCriterion(userValue, criterion) == 100
	case models.TypeList:
		return scoring.ScoreCriterion(userValue, criterion) > 0
	default:
		return false
	}
}

// asFloat mirrors the scoring package's numeric coercion, including the
// education-level ranking for attainment comparisons.
func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		if rank := scoring.EducationLevelRank(t); rank > 0 {
			return float64(rank), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func keyAdvantages(candidate, current *models.Program) []string {
	var advantages []string

	if candidate.Details != nil && current.Details != nil {
		if candidate.Details.ProcessingTime != nil && current.Details.ProcessingTime != nil {
			altAvg := models.AverageMonths(candidate.Details.ProcessingTime)
			curAvg := models.AverageMonths(current.Details.ProcessingTime)
			if altAvg < curAvg {
				advantages = append(advantages, fmt.Sprintf("Faster processing time (approximately %s months)", formatValue(altAvg)))
			}
		}
		if candidate.Details.TotalCost != nil && current.Details.TotalCost != nil {
			altAvg := models.AverageCost(candidate.Details.TotalCost)
			curAvg := models.AverageCost(current.Details.TotalCost)
			if altAvg < curAvg {
				advantages = append(advantages, fmt.Sprintf("Lower cost (approximately %s %s)", formatValue(altAvg), costCurrency(candidate.Details.TotalCost)))
			}
		}
		altPR := candidate.Details.PathToPermanentResidence
		curPR := current.Details.PathToPermanentResidence
		if altPR != nil && curPR != nil && altPR.HasPathway &&
			(!curPR.HasPathway || altPR.TimeToEligibility < curPR.TimeToEligibility) {
			advantages = append(advantages, "Better pathway to permanent residence")
		}
	}

	if len(advantages) == 0 {
		advantages = append(advantages, "May be easier to qualify for based on your profile")
	}
	return advantages
}

func keyDisadvantages(candidate, current *models.Program) []string {
	var disadvantages []string

	if candidate.Details != nil && current.Details != nil {
		if candidate.Details.ProcessingTime != nil && current.Details.ProcessingTime != nil {
			altAvg := models.AverageMonths(candidate.Details.ProcessingTime)
			curAvg := models.AverageMonths(current.Details.ProcessingTime)
			if altAvg > curAvg {
				disadvantages = append(disadvantages, fmt.Sprintf("Longer processing time (approximately %s months)", formatValue(altAvg)))
			}
		}
		if candidate.Details.TotalCost != nil && current.Details.TotalCost != nil {
			altAvg := models.AverageCost(candidate.Details.TotalCost)
			curAvg := models.AverageCost(current.Details.TotalCost)
			if altAvg > curAvg {
				disadvantages = append(disadvantages, fmt.Sprintf("Higher cost (approximately %s %s)", formatValue(altAvg), costCurrency(candidate.Details.TotalCost)))
			}
		}
		if len(candidate.Details.Benefits) > 0 && len(current.Details.Benefits) > 0 &&
			len(candidate.Details.Benefits) < len(current.Details.Benefits) {
			disadvantages = append(disadvantages, "Fewer benefits or rights")
		}
	}

	if len(disadvantages) == 0 {
		disadvantages = append(disadvantages, "May not offer all the same advantages as your primary match")
	}
	return disadvantages
}

func costCurrency(cost *models.MoneyRange) string {
	if cost.Currency != "" {
		return cost.Currency
	}
	return "USD"
}
