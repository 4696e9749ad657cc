package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a client-side validation error; no request was sent
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates a missing or rejected credential
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeForbidden indicates the caller's role lacks the capability
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeRejected indicates a business-rule rejection (4xx) from the backend
	ErrorTypeRejected ErrorType = "REJECTED"

	// ErrorTypeTransport indicates a network failure or timeout
	ErrorTypeTransport ErrorType = "TRANSPORT"

	// ErrorTypeProvider indicates a malformed video-provider artifact
	ErrorTypeProvider ErrorType = "PROVIDER"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates a server-side (5xx) error from the backend
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Fields     map[string]string
	Err        error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, e.fieldSummary())
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) fieldSummary() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewFieldValidationError creates a validation error carrying per-field messages
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: "invalid input",
		Fields:  fields,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewRejectedError creates an error for a 4xx business-rule rejection
func NewRejectedError(statusCode int, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRejected,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewTransportError creates an error for a failed round trip
func NewTransportError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: message,
		Err:     err,
	}
}

// NewProviderError creates an error for a malformed provider artifact
func NewProviderError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeProvider,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// UserMessage returns the message to show an operator. Server-supplied detail
// and validation messages pass through verbatim; anything else gets fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fallback
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		if len(appErr.Fields) > 0 {
			return appErr.fieldSummary()
		}
		return appErr.Message
	case ErrorTypeInternal, ErrorTypeExternal, ErrorTypeTransport:
		if appErr.Message != "" && appErr.StatusCode != 0 {
			return appErr.Message
		}
		return fallback
	default:
		if appErr.Message != "" {
			return appErr.Message
		}
		return fallback
	}
}
