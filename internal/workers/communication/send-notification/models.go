// internal/workers/communication/send-notification/models.go
package sendnotification

type Input struct {
	UserID           string                 `json:"userId"`
	NotificationType string                 `json:"notificationType"`
	RecommendationID string                 `json:"recommendationId,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"notificationStatus"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"`             // ISO 8601
}

// Notification types
const (
	TypeRecommendationCompleted = "recommendation_completed"
	TypeRecommendationFailed    = "recommendation_failed"
	TypeGapAnalysisReady        = "gap_analysis_ready"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
