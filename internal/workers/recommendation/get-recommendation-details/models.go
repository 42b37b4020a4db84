// internal/workers/recommendation/get-recommendation-details/models.go
package getrecommendationdetails

import "migratio-workers/internal/recommendation"

type Input struct {
	RecommendationID string `json:"recommendationId"`
}

type Output struct {
	Recommendation *recommendation.RecommendationDetails `json:"recommendation"`
	ResultCount    int                                   `json:"resultCount"`
}
