// internal/models/profile.go
package models

import "time"

// Profile is the applicant profile consumed by the scoring engine.
// It is owned by the user service; this module only reads it.
type Profile struct {
	UserID                 string                     `json:"userId"`
	PersonalInfo           PersonalInfo               `json:"personalInfo"`
	Education              []EducationEntry           `json:"education,omitempty"`
	WorkExperience         []WorkExperienceEntry      `json:"workExperience,omitempty"`
	LanguageProficiency    []LanguageProficiencyEntry `json:"languageProficiency,omitempty"`
	FinancialInfo          *FinancialInfo             `json:"financialInfo,omitempty"`
	ImmigrationPreferences *ImmigrationPreferences    `json:"immigrationPreferences,omitempty"`
	UpdatedAt              time.Time                  `json:"updatedAt,omitempty"`
}

type PersonalInfo struct {
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Nationality   string     `json:"nationality,omitempty"`
	MaritalStatus string     `json:"maritalStatus,omitempty"`
}

// Education levels ordered from high-school up. Doctorate and professional
// degrees rank equally.
const (
	EducationHighSchool   = "high-school"
	EducationCertificate  = "certificate"
	EducationDiploma      = "diploma"
	EducationAssociate    = "associate"
	EducationBachelor     = "bachelor"
	EducationMaster       = "master"
	EducationDoctorate    = "doctorate"
	EducationProfessional = "professional"
)

type EducationEntry struct {
	Level        string `json:"level"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	Institution  string `json:"institution,omitempty"`
	Country      string `json:"country,omitempty"`
	Completed    bool   `json:"completed,omitempty"`
}

type WorkExperienceEntry struct {
	Occupation   string     `json:"occupation,omitempty"`
	Employer     string     `json:"employer,omitempty"`
	Country      string     `json:"country,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	IsCurrentJob bool       `json:"isCurrentJob,omitempty"`
}

// LanguageProficiencyEntry holds per-skill test scores. A zero skill score
// means the skill was not tested and the overall score applies instead.
type LanguageProficiencyEntry struct {
	Language     string  `json:"language"`
	TestType     string  `json:"testType,omitempty"`
	Reading      float64 `json:"reading,omitempty"`
	Writing      float64 `json:"writing,omitempty"`
	Speaking     float64 `json:"speaking,omitempty"`
	Listening    float64 `json:"listening,omitempty"`
	OverallScore float64 `json:"overallScore,omitempty"`
}

type FinancialInfo struct {
	Currency     string  `json:"currency,omitempty"`
	NetWorth     float64 `json:"netWorth,omitempty"`
	LiquidAssets float64 `json:"liquidAssets,omitempty"`
	AnnualIncome float64 `json:"annualIncome,omitempty"`
}

// Timeframe buckets accepted in ImmigrationPreferences.Timeframe.
const (
	TimeframeImmediate    = "immediate"
	TimeframeWithin6M     = "within-6-months"
	TimeframeWithin1Y     = "within-1-year"
	TimeframeWithin2Y     = "within-2-years"
	TimeframeFlexible     = "flexible"
)

type ImmigrationPreferences struct {
	DestinationCountries []string     `json:"destinationCountries,omitempty"`
	PathwayTypes         []string     `json:"pathwayTypes,omitempty"`
	Timeframe            string       `json:"timeframe,omitempty"`
	BudgetRange          *BudgetRange `json:"budgetRange,omitempty"`
}

// BudgetRange is either a numeric min/max pair or a named level
// (low, medium, high). Numeric bounds win when both are present.
type BudgetRange struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Level string   `json:"level,omitempty"`
}

const (
	BudgetLevelLow    = "low"
	BudgetLevelMedium = "medium"
	BudgetLevelHigh   = "high"
)
