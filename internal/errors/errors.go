package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrNotFound     ErrorType = "NOT_FOUND"
	ErrRateLimit    ErrorType = "RATE_LIMIT"
	ErrUpstream     ErrorType = "UPSTREAM"
	ErrInvalidInput ErrorType = "INVALID_INPUT"
	ErrInternal     ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return New(ErrNotFound, message, err)
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(message string, err error) *AppError {
	return New(ErrRateLimit, message, err)
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(message string, err error) *AppError {
	return New(ErrUpstream, message, err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return isType(err, ErrNotFound)
}

// IsRateLimit checks if the error is a rate limit error
func IsRateLimit(err error) bool {
	return isType(err, ErrRateLimit)
}

// IsUpstream checks if the error is an upstream error
func IsUpstream(err error) bool {
	return isType(err, ErrUpstream)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrInvalidInput)
}

// StatusCode maps an error to the HTTP status the API responds with.
// Upstream transport failures and internal errors both surface as 500.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrRateLimit:
		return http.StatusForbidden
	case ErrInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Wrapf annotates an error with context while preserving its type
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return New(appErr.Type, fmt.Sprintf(format, args...)+": "+appErr.Message, err)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
