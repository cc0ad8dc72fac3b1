// Package errors provides standardized error handling for the API service.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrCodeAnswersIncomplete  ErrorCode = "ANSWERS_INCOMPLETE"
	ErrCodeLeadInsertFailed   ErrorCode = "LEAD_INSERT_FAILED"
	ErrCodeStoreNotConfigured ErrorCode = "STORE_NOT_CONFIGURED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed   ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchUnavailable   ErrorCode = "SEARCH_UNAVAILABLE"
	ErrCodeStorageUploadFailed ErrorCode = "STORAGE_UPLOAD_FAILED"
	ErrCodeStorageDeleteFailed ErrorCode = "STORAGE_DELETE_FAILED"
	ErrCodeGalleryItemNotFound ErrorCode = "GALLERY_ITEM_NOT_FOUND"

	ErrCodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"

	ErrCodeAuthInvalidCredentials ErrorCode = "AUTH_INVALID_CREDENTIALS"
	ErrCodeAuthSessionExpired     ErrorCode = "AUTH_SESSION_EXPIRED"
	ErrCodeAuthRequired           ErrorCode = "AUTH_REQUIRED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable scan session error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Growth-Scan session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError creates a non-retryable state machine error.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Growth-Scan flow does not allow this transition",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswersIncompleteError creates a non-retryable gating error.
func NewAnswersIncompleteError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswersIncomplete,
		Message:   "Revenue tier and main pain must both be answered",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLeadInsertFailedError creates a retryable persistence error.
func NewLeadInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLeadInsertFailed,
		Message:   "Failed to persist diagnostic lead",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreNotConfiguredError signals that a backing store was not wired at
// startup; callers get a 503, not a panic.
func NewStoreNotConfiguredError(store string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreNotConfigured,
		Message:   "Backing store is not configured",
		Details:   store,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Lead search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchUnavailableError signals that no search cluster is configured.
func NewSearchUnavailableError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchUnavailable,
		Message:   "Lead search is not configured",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageUploadFailedError creates a retryable object storage error.
func NewStorageUploadFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageUploadFailed,
		Message:   "Object storage upload failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageDeleteFailedError creates a retryable object storage error.
func NewStorageDeleteFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageDeleteFailed,
		Message:   "Object storage delete failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGalleryItemNotFoundError creates a non-retryable lookup error.
func NewGalleryItemNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGalleryItemNotFound,
		Message:   "Gallery item not found",
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError creates a non-retryable link profile lookup error.
func NewProfileNotFoundError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Link profile not found",
		Details:   fmt.Sprintf("slug: %s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthInvalidCredentialsError creates a non-retryable auth error.
func NewAuthInvalidCredentialsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthInvalidCredentials,
		Message:   "Invalid username or password",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthRequiredError creates a non-retryable auth error.
func NewAuthRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthRequired,
		Message:   "Authentication required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthSessionExpiredError creates a non-retryable auth error.
func NewAuthSessionExpiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthSessionExpired,
		Message:   "Admin session expired",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Lead notification send failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidTransition, ErrCodeAnswersIncomplete:
		return http.StatusBadRequest
	case ErrCodeAuthInvalidCredentials, ErrCodeAuthSessionExpired, ErrCodeAuthRequired:
		return http.StatusUnauthorized
	case ErrCodeSessionNotFound, ErrCodeProfileNotFound, ErrCodeGalleryItemNotFound:
		return http.StatusNotFound
	case ErrCodeSearchUnavailable, ErrCodeStoreNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "AUTH_"):
		return "auth"
	case strings.HasPrefix(s, "STORAGE_"):
		return "storage"
	case strings.HasPrefix(s, "SEARCH_"):
		return "search"
	case strings.HasPrefix(s, "DATABASE_"), strings.HasPrefix(s, "QUERY_"), code == ErrCodeLeadInsertFailed:
		return "database"
	case code == ErrCodeValidationFailed, code == ErrCodeAnswersIncomplete, code == ErrCodeInvalidTransition:
		return "validation"
	default:
		return "internal"
	}
}
