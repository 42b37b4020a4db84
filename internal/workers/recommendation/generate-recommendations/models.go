// internal/workers/recommendation/generate-recommendations/models.go
package generaterecommendations

type Input struct {
	UserID      string                 `json:"userId"`
	SessionID   string                 `json:"sessionId"`
	MaxResults  int                    `json:"maxResults"`
	Preferences map[string]interface{} `json:"preferences"`
}

type Output struct {
	RecommendationID string  `json:"recommendationId"`
	Status           string  `json:"recommendationStatus"`
	ResultCount      int     `json:"resultCount"`
	TopProgramID     string  `json:"topProgramId,omitempty"`
	TopMatchScore    float64 `json:"topMatchScore,omitempty"`
	ProcessingTimeMs int64   `json:"processingTimeMs"`
	CompletedAt      string  `json:"completedAt"` // ISO 8601
}
