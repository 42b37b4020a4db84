// internal/models/program.go
package models

import "time"

// CriterionCategory groups eligibility criteria by the profile area they test.
type CriterionCategory string

const (
	CategoryAge            CriterionCategory = "age"
	CategoryEducation      CriterionCategory = "education"
	CategoryWorkExperience CriterionCategory = "work_experience"
	CategoryLanguage       CriterionCategory = "language"
	CategoryFinancial      CriterionCategory = "financial"
	CategoryFamily         CriterionCategory = "family"
	CategoryOther          CriterionCategory = "other"
)

// CriterionType selects the scoring rule applied to a criterion.
type CriterionType string

const (
	TypeMinimum     CriterionType = "minimum"
	TypeMaximum     CriterionType = "maximum"
	TypeRange       CriterionType = "range"
	TypeExact       CriterionType = "exact"
	TypeBoolean     CriterionType = "boolean"
	TypeList        CriterionType = "list"
	TypePointsTable CriterionType = "points_table"
)

// Financial sub-fields referenced by EligibilityCriterion.Field.
const (
	FieldNetWorth     = "net_worth"
	FieldLiquidAssets = "liquid_assets"
	FieldAnnualIncome = "annual_income"
)

// EligibilityCriterion is a single eligibility rule within a program.
// Value carries the type-specific requirement as decoded JSON: a number,
// bool, string, list, or a {"min":..,"max":..} object for range criteria.
// Language, Skill and Field are structured selectors; criterion ids are
// opaque and never parsed.
type EligibilityCriterion struct {
	CriterionID   string            `json:"criterionId"`
	Name          string            `json:"name"`
	Category      CriterionCategory `json:"category"`
	Type          CriterionType     `json:"type"`
	Value         interface{}       `json:"value,omitempty"`
	PointsTable   []PointsTableEntry `json:"pointsTable,omitempty"`
	IsMandatory   bool              `json:"isMandatory"`
	PointsAwarded float64           `json:"pointsAwarded,omitempty"`
	Language      string            `json:"language,omitempty"`
	Skill         string            `json:"skill,omitempty"`
	Field         string            `json:"field,omitempty"`
}

// PointsTableEntry maps a condition to awarded points. Condition is decoded
// JSON: a direct value, a {"value":..} object, or a {"min":..,"max":..} range.
type PointsTableEntry struct {
	Condition interface{} `json:"condition"`
	Points    float64     `json:"points"`
}

// PointsSystem marks a program as points-based with a passing threshold.
type PointsSystem struct {
	IsPointsBased bool    `json:"isPointsBased"`
	PassingScore  float64 `json:"passingScore,omitempty"`
	MaxPoints     float64 `json:"maxPoints,omitempty"`
}

// MonthRange describes a processing-time window in months.
type MonthRange struct {
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Average float64 `json:"average,omitempty"`
}

// MoneyRange describes a cost window in a currency.
type MoneyRange struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

type SuccessRate struct {
	Value float64 `json:"value"`
	Year  int     `json:"year,omitempty"`
}

type PRPathway struct {
	HasPathway        bool    `json:"hasPathway"`
	TimeToEligibility float64 `json:"timeToEligibility,omitempty"` // months
}

type ProgramDetails struct {
	ProcessingTime           *MonthRange  `json:"processingTime,omitempty"`
	TotalCost                *MoneyRange  `json:"totalCost,omitempty"`
	SuccessRate              *SuccessRate `json:"successRate,omitempty"`
	PathToPermanentResidence *PRPathway   `json:"pathToPermanentResidence,omitempty"`
	Benefits                 []string     `json:"benefits,omitempty"`
}

// Program is an immigration program definition from the program catalog.
type Program struct {
	ProgramID           string                 `json:"programId"`
	CountryID           string                 `json:"countryId"`
	Name                string                 `json:"name"`
	OfficialName        string                 `json:"officialName,omitempty"`
	OfficialWebsite     string                 `json:"officialWebsite,omitempty"`
	Category            string                 `json:"category"`
	Subcategory         string                 `json:"subcategory,omitempty"`
	ShortDescription    string                 `json:"shortDescription,omitempty"`
	Description         string                 `json:"description,omitempty"`
	Active              bool                   `json:"active"`
	EligibilityCriteria []EligibilityCriterion `json:"eligibilityCriteria"`
	PointsSystem        *PointsSystem          `json:"pointsSystem,omitempty"`
	Details             *ProgramDetails        `json:"details,omitempty"`
	UpdatedAt           time.Time              `json:"updatedAt,omitempty"`
}

// AverageMonths returns the representative processing time of a range,
// preferring the stated average over the min/max midpoint.
func AverageMonths(r *MonthRange) float64 {
	if r == nil {
		return 0
	}
	if r.Average > 0 {
		return r.Average
	}
	return (r.Min + r.Max) / 2
}

// AverageCost returns the representative cost of a range: the min/max
// midpoint when both bounds are set, otherwise whichever bound exists.
func AverageCost(c *MoneyRange) float64 {
	if c == nil {
		return 0
	}
	if c.Min > 0 && c.Max > 0 {
		return (c.Min + c.Max) / 2
	}
	if c.Min > 0 {
		return c.Min
	}
	return c.Max
}
