// Package controller provides the HTTP controllers and the shared
// request/response conventions of the service.
package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/nimburion/zipcodes/pkg/observability/logger"
)

// AppError is the single application error contract shared across layers.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	cause      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Code + ": " + e.Message + ": " + e.cause.Error()
	}
	return e.Code + ": " + e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// ErrorResponse represents the consistent error response format.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Code      string                 `json:"code,omitempty"`
	Message   string                 `json:"message,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// MapError maps application errors to HTTP responses. Errors that are not
// AppErrors are reported as opaque internal errors.
func MapError(ctx context.Context, err error) (int, ErrorResponse) {
	requestID := logger.RequestIDFromContext(ctx)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Error:     "internal_server_error",
			Message:   "an unexpected error occurred",
			RequestID: requestID,
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	message := appErr.Message
	if message == "" {
		message = "an unexpected error occurred"
	}

	return status, ErrorResponse{
		Error:     errorCategory(status),
		Code:      appErr.Code,
		Message:   message,
		RequestID: requestID,
		Details:   appErr.Details,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       "validation.failed",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:       "resource.not_found",
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       "resource.conflict",
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Details:    details,
	}
}

// NewInternalError creates a new internal error with an optional cause.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Code:       "internal.error",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		cause:      cause,
	}
}

func errorCategory(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		if status >= 500 {
			return "internal_server_error"
		}
		return "application_error"
	}
}
