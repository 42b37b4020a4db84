// internal/workers/recommendation/add-feedback/models.go
package addfeedback

type Input struct {
	RecommendationID string `json:"recommendationId"`
	ProgramID        string `json:"programId"`
	RelevanceRating  int    `json:"relevanceRating"`
	Comments         string `json:"comments"`
}

type Output struct {
	RecommendationID string `json:"recommendationId"`
	FeedbackCount    int    `json:"feedbackCount"`
	SubmittedAt      string `json:"feedbackSubmittedAt"` // ISO 8601
}
