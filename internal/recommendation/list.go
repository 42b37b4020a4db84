// internal/recommendation/list.go
package recommendation

import (
	"context"
	"math"
	"sort"

	"migratio-workers/internal/models"
)

// ResultFilters narrow the per-program results inside each returned
// recommendation.
type ResultFilters struct {
	Countries         []string `json:"countries,omitempty"`
	MinMatchScore     float64  `json:"minMatchScore,omitempty"`
	MaxProcessingTime float64  `json:"maxProcessingTime,omitempty"`
	MaxCost           float64  `json:"maxCost,omitempty"`
}

// ListOptions control Listing: store-level narrowing plus in-memory result
// filtering and re-sorting.
type ListOptions struct {
	SessionID       string                      `json:"sessionId,omitempty"`
	Status          models.RecommendationStatus `json:"status,omitempty"`
	IncludeArchived bool                        `json:"includeArchived,omitempty"`
	Limit           int                         `json:"limit,omitempty"`
	Filters         *ResultFilters              `json:"filters,omitempty"`
	SortBy          string                      `json:"sortBy,omitempty"`
	SortDirection   string                      `json:"sortDirection,omitempty"`
}

// List returns a user's recommendations, newest first. Status defaults to
// completed and archived runs are excluded unless requested. Result filters
// and re-sorting are applied per recommendation, with ranks reassigned.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]models.Recommendation, error) {
	status := opts.Status
	if status == "" {
		status = models.RecommendationCompleted
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	recs, err := s.store.ListRecommendations(ctx, userID, ListQuery{
		SessionID:       opts.SessionID,
		Status:          status,
		IncludeArchived: opts.IncludeArchived,
		Limit:           limit,
	})
	if err != nil {
		return nil, err
	}

	for i := range recs {
		if opts.Filters != nil {
			recs[i].Results = filterResults(recs[i].Results, opts.Filters)
		}
		if opts.SortBy != "" {
			sortResults(recs[i].Results, opts.SortBy, opts.SortDirection)
			for j := range recs[i].Results {
				recs[i].Results[j].Rank = j + 1
			}
		}
	}
	return recs, nil
}

func filterResults(results []models.RecommendationResult, filters *ResultFilters) []models.RecommendationResult {
	filtered := results[:0:0]
	for _, result := range results {
		if len(filters.Countries) > 0 && !containsString(filters.Countries, result.CountryID) {
			continue
		}
		if filters.MinMatchScore > 0 && result.MatchScore < filters.MinMatchScore {
			continue
		}
		if filters.MaxProcessingTime > 0 {
			if result.EstimatedProcessingTime == nil ||
				models.AverageMonths(result.EstimatedProcessingTime) > filters.MaxProcessingTime {
				continue
			}
		}
		if filters.MaxCost > 0 {
			if result.EstimatedCost == nil || maxOrMin(result.EstimatedCost) > filters.MaxCost {
				continue
			}
		}
		filtered = append(filtered, result)
	}
	return filtered
}

// maxOrMin returns the upper cost bound, falling back to the lower one.
func maxOrMin(cost *models.MoneyRange) float64 {
	if cost.Max > 0 {
		return cost.Max
	}
	return cost.Min
}

func sortResults(results []models.RecommendationResult, sortBy, direction string) {
	value := func(r models.RecommendationResult) float64 {
		switch sortBy {
		case "processingTime":
			if r.EstimatedProcessingTime == nil {
				return math.Inf(1)
			}
			return models.AverageMonths(r.EstimatedProcessingTime)
		case "cost":
			if r.EstimatedCost == nil {
				return math.Inf(1)
			}
			return models.AverageCost(r.EstimatedCost)
		case "successProbability":
			return r.SuccessProbability
		default:
			return r.MatchScore
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if direction == "asc" {
			return value(results[i]) < value(results[j])
		}
		return value(results[i]) > value(results[j])
	})
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
