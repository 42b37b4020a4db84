// internal/scoring/engine.go
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
)

// Options control a single scoring run.
type Options struct {
	// ApplyPreferenceAdjustments multiplies the overall score by the
	// user's stated country, pathway, timeline and budget preferences.
	ApplyPreferenceAdjustments bool
	// Now anchors age and work-experience calculations. Zero means
	// time.Now().
	Now time.Time
}

// Engine scores user profiles against immigration program criteria. All
// calculations are deterministic for a fixed Options.Now.
type Engine struct {
	log logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{log: log}
}

// CalculateMatchScore evaluates every eligibility criterion of the program
// against the profile and aggregates per-criterion scores into category
// scores and an overall score in [0,100].
func (e *Engine) CalculateMatchScore(profile *models.Profile, program *models.Program, opts Options) *models.MatchResult {
	start := time.Now()
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := &models.MatchResult{
		UserID:    profile.UserID,
		ProgramID: program.ProgramID,
	}

	categories, byCategory := groupByCategory(program.EligibilityCriteria)
	result.CriterionScores = e.scoreCriteria(profile, categories, byCategory, now)
	result.CategoryScores = categoryScores(result.CriterionScores, categories, byCategory)

	if program.PointsSystem != nil && program.PointsSystem.IsPointsBased {
		result.OverallScore = pointsBasedScore(result.CriterionScores, program.PointsSystem)
	} else {
		result.OverallScore = compositeScore(result.CategoryScores)
	}

	if opts.ApplyPreferenceAdjustments && profile.ImmigrationPreferences != nil {
		result.OverallScore = applyPreferenceAdjustments(result.OverallScore, program, profile.ImmigrationPreferences)
	}

	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	e.log.Debug("calculated match score", map[string]interface{}{
		"userId":       profile.UserID,
		"programId":    program.ProgramID,
		"overallScore": result.OverallScore,
		"criteria":     len(result.CriterionScores),
	})

	return result
}

// groupByCategory preserves first-seen category order so results are stable
// across runs.
func groupByCategory(criteria []models.EligibilityCriterion) ([]models.CriterionCategory, map[models.CriterionCategory][]models.EligibilityCriterion) {
	var order []models.CriterionCategory
	grouped := make(map[models.CriterionCategory][]models.EligibilityCriterion)
	for _, c := range criteria {
		if _, ok := grouped[c.Category]; !ok {
			order = append(order, c.Category)
		}
		grouped[c.Category] = append(grouped[c.Category], c)
	}
	return order, grouped
}

func (e *Engine) scoreCriteria(profile *models.Profile, categories []models.CriterionCategory, byCategory map[models.CriterionCategory][]models.EligibilityCriterion, now time.Time) []models.CriterionScore {
	var scores []models.CriterionScore
	for _, category := range categories {
		for _, criterion := range byCategory[category] {
			userValue := UserValue(profile, criterion, now)
			score := ScoreCriterion(userValue, criterion)
			scores = append(scores, models.CriterionScore{
				CriterionID:   criterion.CriterionID,
				CriterionName: criterion.Name,
				Category:      criterion.Category,
				UserValue:     userValue,
				RequiredValue: criterion.Value,
				Score:         score,
				Weight:        criterionWeight(criterion),
				Impact:        impactOf(score, criterion),
				Description:   criterionDescription(criterion, score),
			})
		}
	}
	return scores
}

func criterionWeight(criterion models.EligibilityCriterion) float64 {
	if criterion.PointsAwarded > 0 {
		return criterion.PointsAwarded
	}
	return 1
}

// ScoreCriterion scores a single criterion in [0,100]. A nil user value
// means the profile holds no relevant data and scores 0.
func ScoreCriterion(userValue interface{}, criterion models.EligibilityCriterion) float64 {
	if userValue == nil {
		return 0
	}

	switch criterion.Type {
	case models.TypeMinimum:
		return scoreMinimum(userValue, criterion.Value)
	case models.TypeMaximum:
		return scoreMaximum(userValue, criterion.Value)
	case models.TypeRange:
		return scoreRange(userValue, criterion.Value)
	case models.TypeExact:
		return scoreExact(userValue, criterion.Value)
	case models.TypeBoolean:
		return scoreBoolean(userValue, criterion.Value)
	case models.TypeList:
		return scoreList(userValue, criterion.Value)
	case models.TypePointsTable:
		return scorePointsTable(userValue, criterion.PointsTable)
	default:
		return 0
	}
}

func scoreMinimum(userValue, requiredValue interface{}) float64 {
	user, uok := toFloat(userValue)
	required, rok := toFloat(requiredValue)
	if !uok || !rok || required <= 0 {
		return 0
	}
	if user < required {
		return math.Min(80, user/required*100)
	}
	return 100
}

func scoreMaximum(userValue, requiredValue interface{}) float64 {
	user, uok := toFloat(userValue)
	required, rok := toFloat(requiredValue)
	if !uok || !rok || required <= 0 {
		return 0
	}
	if user > required {
		return 0
	}
	return 100 - ((required-user)/required)*20
}

func scoreRange(userValue, requiredValue interface{}) float64 {
	user, uok := toFloat(userValue)
	if !uok {
		return 0
	}
	min, max, ok := toRange(requiredValue)
	if !ok {
		return 0
	}
	if user < min {
		if min <= 0 {
			return 0
		}
		return math.Min(80, user/min*100)
	}
	if user > max {
		return 0
	}
	halfRange := (max - min) / 2
	if halfRange == 0 {
		return 100
	}
	middle := min + halfRange
	return 100 - (math.Abs(user-middle)/halfRange)*20
}

// scoreExact gives partial credit only when both sides are genuinely
// numeric. Strings (education levels included) must match outright.
func scoreExact(userValue, requiredValue interface{}) float64 {
	user, uok := numericOnly(userValue)
	required, rok := numericOnly(requiredValue)
	if uok && rok {
		if user == required {
			return 100
		}
		if required == 0 {
			return 0
		}
		percentDiff := math.Abs(user-required) / math.Abs(required) * 100
		return math.Max(0, 100-percentDiff)
	}
	if uok != rok {
		return 0
	}
	if fmt.Sprintf("%v", userValue) == fmt.Sprintf("%v", requiredValue) {
		return 100
	}
	return 0
}

func scoreBoolean(userValue, requiredValue interface{}) float64 {
	if toBool(userValue) == toBool(requiredValue) {
		return 100
	}
	return 0
}

func scoreList(userValue, requiredValue interface{}) float64 {
	required := toSlice(requiredValue)
	if len(required) == 0 {
		return 100
	}
	user := toSlice(userValue)
	matches := 0
	for _, req := range required {
		for _, have := range user {
			if equalValues(have, req) {
				matches++
				break
			}
		}
	}
	return float64(matches) / float64(len(required)) * 100
}

func scorePointsTable(userValue interface{}, table []models.PointsTableEntry) float64 {
	if len(table) == 0 {
		return 0
	}

	var matched, maxPoints float64
	for _, entry := range table {
		if entry.Points > maxPoints {
			maxPoints = entry.Points
		}
		if matchesCondition(userValue, entry.Condition) && entry.Points > matched {
			matched = entry.Points
		}
	}
	if maxPoints <= 0 {
		return 0
	}
	return matched / maxPoints * 100
}

// matchesCondition accepts either a {min,max} range object, a {value}
// wrapper, or a bare value for exact comparison.
func matchesCondition(userValue, condition interface{}) bool {
	if cond, ok := condition.(map[string]interface{}); ok {
		_, hasMin := cond["min"]
		_, hasMax := cond["max"]
		if hasMin && hasMax {
			user, uok := toFloat(userValue)
			min, minOK := toFloat(cond["min"])
			max, maxOK := toFloat(cond["max"])
			return uok && minOK && maxOK && user >= min && user <= max
		}
		if value, hasValue := cond["value"]; hasValue {
			return equalValues(userValue, value)
		}
		return false
	}
	return equalValues(userValue, condition)
}

func impactOf(score float64, criterion models.EligibilityCriterion) models.Impact {
	if criterion.IsMandatory && score < 50 {
		return models.ImpactNegative
	}
	if score >= 80 {
		return models.ImpactPositive
	}
	return models.ImpactNeutral
}

func criterionDescription(criterion models.EligibilityCriterion, score float64) string {
	switch {
	case score == 0:
		return fmt.Sprintf("Does not meet the requirement for %s.", criterion.Name)
	case score < 50:
		return fmt.Sprintf("Partially meets the requirement for %s, but significant improvement needed.", criterion.Name)
	case score < 80:
		return fmt.Sprintf("Mostly meets the requirement for %s, but some improvement would help.", criterion.Name)
	default:
		return fmt.Sprintf("Fully meets the requirement for %s.", criterion.Name)
	}
}

var categoryNames = map[models.CriterionCategory]string{
	models.CategoryAge:            "Age",
	models.CategoryEducation:      "Education",
	models.CategoryWorkExperience: "Work Experience",
	models.CategoryLanguage:       "Language Proficiency",
	models.CategoryFinancial:      "Financial Requirements",
	models.CategoryFamily:         "Family Status",
	models.CategoryOther:          "Other Requirements",
}

func categoryDescription(category models.CriterionCategory, score float64) string {
	name, ok := categoryNames[category]
	if !ok {
		name = string(category)
	}
	switch {
	case score < 50:
		return fmt.Sprintf("%s requirements are not sufficiently met.", name)
	case score < 80:
		return fmt.Sprintf("%s requirements are partially met.", name)
	default:
		return fmt.Sprintf("%s requirements are well met.", name)
	}
}

// categoryScores averages criterion scores per category weighted by each
// criterion's points, and weights the category itself by criteria count.
func categoryScores(criterionScores []models.CriterionScore, categories []models.CriterionCategory, byCategory map[models.CriterionCategory][]models.EligibilityCriterion) []models.CategoryScore {
	var out []models.CategoryScore
	for _, category := range categories {
		var weightedSum, totalWeight float64
		for _, cs := range criterionScores {
			if cs.Category != category {
				continue
			}
			weightedSum += cs.Score * cs.Weight
			totalWeight += cs.Weight
		}
		avg := float64(0)
		if totalWeight > 0 {
			avg = weightedSum / totalWeight
		}
		out = append(out, models.CategoryScore{
			Category:    category,
			Score:       avg,
			Weight:      float64(len(byCategory[category])),
			Description: categoryDescription(category, avg),
		})
	}
	return out
}

func compositeScore(categoryScores []models.CategoryScore) float64 {
	var weightedSum, totalWeight float64
	for _, cs := range categoryScores {
		weightedSum += cs.Score * cs.Weight
		totalWeight += cs.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}

func pointsBasedScore(criterionScores []models.CriterionScore, system *models.PointsSystem) float64 {
	var totalPoints float64
	for _, cs := range criterionScores {
		totalPoints += (cs.Score / 100) * cs.Weight
	}
	passing := system.PassingScore
	if passing <= 0 {
		passing = 1
	}
	return math.Min(100, totalPoints/passing*100)
}

func applyPreferenceAdjustments(baseScore float64, program *models.Program, prefs *models.ImmigrationPreferences) float64 {
	adjusted := baseScore

	if containsString(prefs.DestinationCountries, program.CountryID) {
		adjusted *= 1.2
	}
	if containsString(prefs.PathwayTypes, program.Category) {
		adjusted *= 1.1
	}
	if prefs.Timeframe != "" && program.Details != nil && program.Details.ProcessingTime != nil {
		match := timelineCompatibility(program.Details.ProcessingTime, prefs.Timeframe)
		adjusted *= 0.8 + match*0.4
	}
	if prefs.BudgetRange != nil && program.Details != nil && program.Details.TotalCost != nil {
		factor := costCompatibility(program.Details.TotalCost, prefs.BudgetRange)
		adjusted *= 0.8 + factor*0.4
	}

	return math.Min(100, adjusted)
}

func timelineCompatibility(processingTime *models.MonthRange, timeframe string) float64 {
	var preferredMonths float64
	switch timeframe {
	case models.TimeframeImmediate:
		preferredMonths = 3
	case models.TimeframeWithin6M:
		preferredMonths = 6
	case models.TimeframeWithin1Y:
		preferredMonths = 12
	case models.TimeframeWithin2Y:
		preferredMonths = 24
	case models.TimeframeFlexible:
		return 1
	default:
		preferredMonths = 12
	}

	avg := models.AverageMonths(processingTime)
	if avg <= preferredMonths {
		return 1
	}
	return math.Max(0, 1-(avg-preferredMonths)/preferredMonths)
}

func costCompatibility(cost *models.MoneyRange, budget *models.BudgetRange) float64 {
	avg := models.AverageCost(cost)

	min, max := budget.Min, budget.Max
	if min == nil && max == nil {
		switch budget.Level {
		case models.BudgetLevelLow:
			v := float64(5000)
			max = &v
		case models.BudgetLevelMedium:
			lo, hi := float64(5000), float64(20000)
			min, max = &lo, &hi
		case models.BudgetLevelHigh:
			v := float64(20000)
			min = &v
		default:
			return 1
		}
	}

	switch {
	case min != nil && max != nil:
		if avg <= *max {
			return 1
		}
		return math.Max(0, 1-(avg-*max)/(*max))
	case max != nil:
		if avg <= *max {
			return 1
		}
		return math.Max(0, 1-(avg-*max)/(*max))
	default:
		// Only a floor is set, so any cheaper program still fits.
		return 1
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// toFloat coerces decoded-JSON values to float64. Education level strings
// compare by rank so minimum and range criteria work on attainment.
func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		if rank := educationRank[t]; rank > 0 {
			return float64(rank), true
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toRange(v interface{}) (min, max float64, ok bool) {
	m, isMap := v.(map[string]interface{})
	if !isMap {
		return 0, 0, false
	}
	min, minOK := toFloat(m["min"])
	max, maxOK := toFloat(m["max"])
	if !minOK || !maxOK || max < min {
		return 0, 0, false
	}
	return min, max, true
}

func toBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "false"
	case float64:
		return t != 0
	case int:
		return t != 0
	case nil:
		return false
	default:
		return true
	}
}

func toSlice(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case nil:
		return nil
	default:
		return []interface{}{v}
	}
}

// equalValues compares scalars the way decoded JSON needs: numbers by
// value, everything else by string form.
func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	af, aok := numericOnly(a)
	bf, bok := numericOnly(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func numericOnly(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
