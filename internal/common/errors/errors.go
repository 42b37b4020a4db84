// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProfileNotFound  ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeNoActivePrograms ErrorCode = "NO_ACTIVE_PROGRAMS"

	ErrCodeRecommendationNotFound         ErrorCode = "RECOMMENDATION_NOT_FOUND"
	ErrCodeRecommendationGenerationFailed ErrorCode = "RECOMMENDATION_GENERATION_FAILED"
	ErrCodeMatchNotFound                  ErrorCode = "MATCH_NOT_FOUND"
	ErrCodeGapAnalysisNotFound            ErrorCode = "GAP_ANALYSIS_NOT_FOUND"
	ErrCodeInvalidFeedback                ErrorCode = "INVALID_FEEDBACK"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeInvalidFilterFormat   ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewProfileNotFoundError creates a non-retryable missing-profile error.
func NewProfileNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "User profile not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoActiveProgramsError creates a non-retryable empty-catalog error.
func NewNoActiveProgramsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoActivePrograms,
		Message:   "No active programs found",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecommendationNotFoundError creates a non-retryable lookup error. It is
// also returned when the recommendation exists but is not owned by the caller.
func NewRecommendationNotFoundError(recommendationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecommendationNotFound,
		Message:   "Recommendation not found",
		Details:   fmt.Sprintf("recommendationId: %s", recommendationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecommendationGenerationFailedError wraps an unexpected failure during
// recommendation generation.
func NewRecommendationGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecommendationGenerationFailed,
		Message:   "Recommendation generation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchNotFoundError creates a non-retryable lookup error.
func NewMatchNotFoundError(matchID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchNotFound,
		Message:   "Match not found",
		Details:   fmt.Sprintf("matchId: %s", matchID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGapAnalysisNotFoundError creates a non-retryable lookup error.
func NewGapAnalysisNotFoundError(gapAnalysisID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGapAnalysisNotFound,
		Message:   "Gap analysis not found",
		Details:   fmt.Sprintf("gapAnalysisId: %s", gapAnalysisID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFeedbackError creates a non-retryable feedback validation error.
func NewInvalidFeedbackError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFeedback,
		Message:   "Invalid recommendation feedback",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution failed",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timed out",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidQueryTypeError creates a non-retryable unknown-query error.
func NewInvalidQueryTypeError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQueryType,
		Message:   "Unknown query type",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable search connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query failed",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Search query timed out",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable missing-index error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Search index not found",
		Details:   fmt.Sprintf("index: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterFormatError creates a non-retryable filter format error.
func NewInvalidFilterFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilterFormat,
		Message:   "Invalid filter format",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputValidationFailedError creates a non-retryable input validation error.
func NewInputValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. The codes
// are identical on both sides so process models can catch them by name.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProfileNotFound:                "PROFILE_NOT_FOUND",
	ErrCodeNoActivePrograms:               "NO_ACTIVE_PROGRAMS",
	ErrCodeRecommendationNotFound:         "RECOMMENDATION_NOT_FOUND",
	ErrCodeRecommendationGenerationFailed: "RECOMMENDATION_GENERATION_FAILED",
	ErrCodeMatchNotFound:                  "MATCH_NOT_FOUND",
	ErrCodeGapAnalysisNotFound:            "GAP_ANALYSIS_NOT_FOUND",
	ErrCodeInvalidFeedback:                "INVALID_FEEDBACK",
	ErrCodeDatabaseConnectionFailed:       "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:           "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                   "QUERY_TIMEOUT",
	ErrCodeInvalidQueryType:               "INVALID_QUERY_TYPE",
	ErrCodeDatabaseInsertFailed:           "DATABASE_INSERT_FAILED",
	ErrCodeElasticsearchConnectionFailed:  "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchQueryFailed:              "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                  "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:                  "INDEX_NOT_FOUND",
	ErrCodeInvalidFilterFormat:            "INVALID_FILTER_FORMAT",
	ErrCodeInputValidationFailed:          "INPUT_VALIDATION_FAILED",
	ErrCodeNotificationSendFailed:         "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsNotFound reports whether the error is one of the not-found codes.
func IsNotFound(err error) bool {
	stdErr, ok := err.(*StandardError)
	if !ok {
		return false
	}
	switch stdErr.Code {
	case ErrCodeProfileNotFound,
		ErrCodeRecommendationNotFound,
		ErrCodeMatchNotFound,
		ErrCodeGapAnalysisNotFound,
		"RESOURCE_NOT_FOUND":
		return true
	}
	return false
}

// GetErrorCode extracts the code from a StandardError, or INTERNAL_ERROR
// for anything else.
func GetErrorCode(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return "INTERNAL_ERROR"
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE") || strings.Contains(codeStr, "PROGRAM"):
		return "CATALOG"
	case strings.Contains(codeStr, "RECOMMENDATION") || strings.Contains(codeStr, "MATCH") || strings.Contains(codeStr, "GAP"):
		return "RECOMMENDATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "FEEDBACK"):
		return "VALIDATION"
	default:
		return "GENERAL"
	}
}
