// internal/scoring/uservalue.go
package scoring

import (
	"math"
	"time"

	"migratio-workers/internal/models"
)

// educationRank orders education levels from lowest to highest so the
// extractor can report a user's top attainment.
var educationRank = map[string]int{
	models.EducationHighSchool:   1,
	models.EducationCertificate:  2,
	models.EducationDiploma:      3,
	models.EducationAssociate:    4,
	models.EducationBachelor:     5,
	models.EducationMaster:       6,
	models.EducationDoctorate:    7,
	models.EducationProfessional: 7,
}

// EducationLevelRank returns the ordinal rank of an education level, or 0
// when the level is unknown.
func EducationLevelRank(level string) int {
	return educationRank[level]
}

// UserValue extracts the profile value a criterion is evaluated against.
// It returns nil when the profile holds nothing relevant, which scores as
// missing data rather than zero.
func UserValue(profile *models.Profile, criterion models.EligibilityCriterion, now time.Time) interface{} {
	if profile == nil {
		return nil
	}

	switch criterion.Category {
	case models.CategoryAge:
		return ageValue(profile, now)
	case models.CategoryEducation:
		return educationValue(profile)
	case models.CategoryWorkExperience:
		return workExperienceValue(profile, now)
	case models.CategoryLanguage:
		return languageValue(profile, criterion)
	case models.CategoryFinancial:
		return financialValue(profile, criterion)
	default:
		return nil
	}
}

func ageValue(profile *models.Profile, now time.Time) interface{} {
	dob := profile.PersonalInfo.DateOfBirth
	if dob == nil {
		return nil
	}
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return nil
	}
	return float64(years)
}

func educationValue(profile *models.Profile) interface{} {
	best := ""
	bestRank := 0
	for _, entry := range profile.Education {
		if rank := educationRank[entry.Level]; rank > bestRank {
			bestRank = rank
			best = entry.Level
		}
	}
	if best == "" {
		return nil
	}
	return best
}

func workExperienceValue(profile *models.Profile, now time.Time) interface{} {
	if len(profile.WorkExperience) == 0 {
		return float64(0)
	}
	var days float64
	for _, entry := range profile.WorkExperience {
		end := now
		if entry.EndDate != nil && !entry.IsCurrentJob {
			end = *entry.EndDate
		}
		if end.Before(entry.StartDate) {
			continue
		}
		days += end.Sub(entry.StartDate).Hours() / 24
	}
	years := days / 365.25
	return math.Round(years*10) / 10
}

func languageValue(profile *models.Profile, criterion models.EligibilityCriterion) interface{} {
	for _, entry := range profile.LanguageProficiency {
		if criterion.Language != "" && entry.Language != criterion.Language {
			continue
		}
		score := skillScore(entry, criterion.Skill)
		if score > 0 {
			return score
		}
	}
	return nil
}

// skillScore reads the requested skill band, falling back to the overall
// score when the skill was not tested.
func skillScore(entry models.LanguageProficiencyEntry, skill string) float64 {
	var v float64
	switch skill {
	case "reading":
		v = entry.Reading
	case "writing":
		v = entry.Writing
	case "speaking":
		v = entry.Speaking
	case "listening":
		v = entry.Listening
	}
	if v == 0 {
		v = entry.OverallScore
	}
	return v
}

func financialValue(profile *models.Profile, criterion models.EligibilityCriterion) interface{} {
	fin := profile.FinancialInfo
	if fin == nil {
		return nil
	}
	switch criterion.Field {
	case models.FieldNetWorth, "":
		return fin.NetWorth
	case models.FieldLiquidAssets:
		return fin.LiquidAssets
	case models.FieldAnnualIncome:
		return fin.AnnualIncome
	default:
		return nil
	}
}
