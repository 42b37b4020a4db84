// internal/workers/recommendation/archive-recommendation/models.go
package archiverecommendation

type Input struct {
	RecommendationID string `json:"recommendationId"`
	UserID           string `json:"userId"`
}

type Output struct {
	RecommendationID string `json:"recommendationId"`
	IsArchived       bool   `json:"isArchived"`
	ArchivedAt       string `json:"archivedAt"` // ISO 8601
}
