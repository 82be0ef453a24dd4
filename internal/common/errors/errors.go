// Package errors provides standardized error handling for the HOL Manager
// check, notification and archival flows.
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
	ErrCodeEmployeeValidationFailed ErrorCode = "EMPLOYEE_VALIDATION_FAILED"
	ErrCodeEmployeeNotFound         ErrorCode = "EMPLOYEE_NOT_FOUND"

	ErrCodeStoreQueryFailed  ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStoreUpdateFailed ErrorCode = "STORE_UPDATE_FAILED"
	ErrCodeStoreDeleteFailed ErrorCode = "STORE_DELETE_FAILED"

	ErrCodeNotificationCreateFailed ErrorCode = "NOTIFICATION_CREATE_FAILED"
	ErrCodeEmailSendFailed          ErrorCode = "EMAIL_SEND_FAILED"

	ErrCodeArchiveWriteFailed  ErrorCode = "ARCHIVE_WRITE_FAILED"
	ErrCodeArchiveDeleteFailed ErrorCode = "ARCHIVE_DELETE_FAILED"
	ErrCodeArchiveIndexFailed  ErrorCode = "ARCHIVE_INDEX_FAILED"

	ErrCodeSummaryGenerationFailed ErrorCode = "SUMMARY_GENERATION_FAILED"
	ErrCodeSummaryTimeout          ErrorCode = "SUMMARY_TIMEOUT"

	ErrCodeUnauthorizedTrigger ErrorCode = "UNAUTHORIZED_TRIGGER"
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

// NewEmployeeValidationFailedError creates a non-retryable record validation error.
func NewEmployeeValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmployeeValidationFailed,
		Message:   "Employee record validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmployeeNotFoundError creates a non-retryable lookup error.
func NewEmployeeNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmployeeNotFound,
		Message:   "Employee not found",
		Details:   fmt.Sprintf("employeeId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable record store read error.
func NewStoreQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Employee store query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUpdateFailedError creates a retryable record store write error.
func NewStoreUpdateFailedError(id string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUpdateFailed,
		Message:   "Employee store update failed",
		Details:   fmt.Sprintf("employeeId: %s, error: %s", id, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreDeleteFailedError creates a retryable record store delete error.
func NewStoreDeleteFailedError(id string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreDeleteFailed,
		Message:   "Employee store delete failed",
		Details:   fmt.Sprintf("employeeId: %s, error: %s", id, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationCreateFailedError creates a retryable notification sink error.
func NewNotificationCreateFailedError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationCreateFailed,
		Message:   "Notification create failed",
		Details:   fmt.Sprintf("kind: %s, error: %s", kind, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendFailedError creates a retryable email delivery error.
func NewEmailSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveWriteFailedError creates a retryable artifact write error. The
// archival flow treats it as fatal for the current run: no deletions follow.
func NewArchiveWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveWriteFailed,
		Message:   "Archive artifact write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveDeleteFailedError creates a retryable per-record delete error.
func NewArchiveDeleteFailedError(id string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveDeleteFailed,
		Message:   "Archived record delete failed",
		Details:   fmt.Sprintf("employeeId: %s, error: %s", id, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveIndexFailedError creates a retryable search index error. Indexing
// failures never abort an archival run.
func NewArchiveIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveIndexFailed,
		Message:   "Archive index update failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSummaryGenerationFailedError creates a retryable summarizer API error.
func NewSummaryGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSummaryGenerationFailed,
		Message:   "Profile summary generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSummaryTimeoutError creates a retryable summarizer timeout error.
func NewSummaryTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSummaryTimeout,
		Message:   "Profile summary generation timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedTriggerError creates a non-retryable trigger authorization error.
func NewUnauthorizedTriggerError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorizedTrigger,
		Message:   "Scheduled trigger caller not trusted",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the error code, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return "INTERNAL_ERROR"
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "EMPLOYEE"):
		return "EMPLOYEE"
	case strings.Contains(codeStr, "STORE"):
		return "STORE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "EMAIL"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "ARCHIVE"):
		return "ARCHIVE"
	case strings.Contains(codeStr, "SUMMARY"):
		return "AI"
	case strings.Contains(codeStr, "UNAUTHORIZED"):
		return "AUTH"
	default:
		return "OTHER"
	}
}
