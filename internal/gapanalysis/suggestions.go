// internal/gapanalysis/suggestions.go
package gapanalysis

import "migratio-workers/internal/models"

// suggestionsFor returns the improvement suggestions for a criterion
// category. The catalog is static; suggestions are copied so callers can
// annotate them without mutating the catalog.
func suggestionsFor(category models.CriterionCategory) []models.ImprovementSuggestion {
	src, ok := suggestionCatalog[category]
	if !ok {
		src = genericSuggestions
	}
	out := make([]models.ImprovementSuggestion, len(src))
	copy(out, src)
	return out
}

func usd(min, max float64) *models.MoneyRange {
	return &models.MoneyRange{Min: min, Max: max, Currency: "USD"}
}

var suggestionCatalog = map[models.CriterionCategory][]models.ImprovementSuggestion{
	models.CategoryAge: {
		{
			Title:                  "Consider alternative programs",
			Description:            "Age requirements cannot be changed. Consider programs with more favorable age criteria or where age has less impact.",
			Difficulty:             models.DifficultyModerate,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 1, Unit: "months"},
			PotentialImpact:        70,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Explore programs with different age requirements or where age has less weight."},
				{Step: 2, Description: "Consider programs where your other strengths can compensate for age factors."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Age-friendly immigration programs", Type: "article"},
			},
		},
	},
	models.CategoryEducation: {
		{
			Title:                  "Pursue additional education",
			Description:            "Enhance your educational qualifications to meet program requirements.",
			Difficulty:             models.DifficultyDifficult,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 1, Unit: "years"},
			EstimatedCost:          usd(5000, 30000),
			PotentialImpact:        90,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Research educational programs that would meet the requirement."},
				{Step: 2, Description: "Apply to and complete the educational program."},
				{Step: 3, Description: "Obtain official transcripts and credentials."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Online education options", Type: "article"},
				{Title: "Credential evaluation services", Type: "service"},
			},
		},
		{
			Title:                  "Get credentials evaluated",
			Description:            "Have your existing education credentials properly evaluated for equivalency.",
			Difficulty:             models.DifficultyEasy,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 1, Unit: "months"},
			EstimatedCost:          usd(100, 500),
			PotentialImpact:        60,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Identify an appropriate credential evaluation service."},
				{Step: 2, Description: "Submit your educational documents for evaluation."},
				{Step: 3, Description: "Receive and include the evaluation report with your application."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Credential evaluation services", Type: "service"},
			},
		},
	},
	models.CategoryWorkExperience: {
		{
			Title:                  "Gain additional work experience",
			Description:            "Acquire more work experience in your field to meet program requirements.",
			Difficulty:             models.DifficultyModerate,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 1, Unit: "years"},
			PotentialImpact:        85,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Seek employment opportunities in your field."},
				{Step: 2, Description: "Maintain detailed records of your work responsibilities and achievements."},
				{Step: 3, Description: "Obtain reference letters from employers."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Job search strategies", Type: "article"},
			},
		},
		{
			Title:                  "Improve documentation of existing experience",
			Description:            "Better document your existing work experience to strengthen your application.",
			Difficulty:             models.DifficultyEasy,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 2, Unit: "weeks"},
			PotentialImpact:        50,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Create detailed job descriptions for each position you've held."},
				{Step: 2, Description: "Obtain reference letters that specifically mention key responsibilities."},
				{Step: 3, Description: "Organize employment records, pay stubs, and tax documents."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Work experience documentation guide", Type: "article"},
			},
		},
	},
	models.CategoryLanguage: {
		{
			Title:                  "Improve language proficiency",
			Description:            "Enhance your language skills and take a recognized language test.",
			Difficulty:             models.DifficultyModerate,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 6, Unit: "months"},
			EstimatedCost:          usd(500, 2000),
			PotentialImpact:        95,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Enroll in language courses or use language learning apps."},
				{Step: 2, Description: "Practice regularly with native speakers."},
				{Step: 3, Description: "Take practice tests to prepare for the official exam."},
				{Step: 4, Description: "Register for and take an official language test."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Language learning resources", Type: "article"},
				{Title: "Official language test preparation", Type: "course"},
			},
		},
		{
			Title:                  "Retake language test",
			Description:            "If you've already taken a language test, consider retaking it to improve your score.",
			Difficulty:             models.DifficultyEasy,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 2, Unit: "months"},
			EstimatedCost:          usd(200, 300),
			PotentialImpact:        75,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Review your previous test results to identify areas for improvement."},
				{Step: 2, Description: "Practice with focus on weak areas."},
				{Step: 3, Description: "Register for and take the test again."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Language test preparation tips", Type: "article"},
			},
		},
	},
	models.CategoryFinancial: {
		{
			Title:                  "Increase savings or assets",
			Description:            "Build up your financial resources to meet program requirements.",
			Difficulty:             models.DifficultyDifficult,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 1, Unit: "years"},
			PotentialImpact:        90,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Create a savings plan to reach the required amount."},
				{Step: 2, Description: "Consider liquidating non-essential assets if needed."},
				{Step: 3, Description: "Maintain funds in your account for the required period (usually 6-12 months)."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Financial planning for immigration", Type: "article"},
			},
		},
		{
			Title:                  "Explore alternative funding options",
			Description:            "Consider other ways to meet financial requirements, such as loans or sponsorship.",
			Difficulty:             models.DifficultyModerate,
			EstimatedTimeToResolve: &models.TimeEstimate{Value: 3, Unit: "months"},
			PotentialImpact:        70,
			Steps: []models.SuggestionStep{
				{Step: 1, Description: "Research loan options specifically for immigration purposes."},
				{Step: 2, Description: "Explore family sponsorship possibilities if applicable."},
				{Step: 3, Description: "Consult with a financial advisor about options."},
			},
			Resources: []models.SuggestionResource{
				{Title: "Immigration financing options", Type: "article"},
			},
		},
	},
}

var genericSuggestions = []models.ImprovementSuggestion{
	{
		Title:                  "Consult with an immigration specialist",
		Description:            "Seek professional advice on how to address this specific requirement.",
		Difficulty:             models.DifficultyModerate,
		EstimatedTimeToResolve: &models.TimeEstimate{Value: 1, Unit: "months"},
		EstimatedCost:          usd(200, 500),
		PotentialImpact:        80,
		Steps: []models.SuggestionStep{
			{Step: 1, Description: "Find a reputable immigration consultant or lawyer."},
			{Step: 2, Description: "Schedule a consultation to discuss your specific situation."},
			{Step: 3, Description: "Follow their professional advice to address the gap."},
		},
		Resources: []models.SuggestionResource{
			{Title: "Finding a qualified immigration consultant", Type: "article"},
		},
	},
}
