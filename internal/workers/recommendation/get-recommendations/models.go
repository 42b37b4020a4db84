// internal/workers/recommendation/get-recommendations/models.go
package getrecommendations

import "migratio-workers/internal/models"

type Filters struct {
	Countries         []string `json:"countries"`
	MinMatchScore     float64  `json:"minMatchScore"`
	MaxProcessingTime float64  `json:"maxProcessingTime"` // months
	MaxCost           float64  `json:"maxCost"`
}

type Input struct {
	UserID          string   `json:"userId"`
	SessionID       string   `json:"sessionId"`
	Status          string   `json:"status"`
	IncludeArchived bool     `json:"includeArchived"`
	Limit           int      `json:"limit"`
	Filters         *Filters `json:"filters"`
	SortBy          string   `json:"sortBy"`
	SortDirection   string   `json:"sortDirection"`
}

type Output struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Count           int                     `json:"recommendationCount"`
}
