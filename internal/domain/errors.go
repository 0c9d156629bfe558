package domain

import "net/http"

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
)

// NewValidationError reports malformed, missing, or out-of-range input
func NewValidationError(detail string) *APIError {
	return &APIError{
		Type:   ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}

// NewBadRequestError reports a business-rule rejection, such as mutating
// items in an audit that is no longer in progress
func NewBadRequestError(detail string) *APIError {
	return &APIError{
		Type:   ErrorTypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}

// NewNotFoundError reports an absent referenced entity
func NewNotFoundError(detail string) *APIError {
	return &APIError{
		Type:   ErrorTypeNotFound,
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: detail,
	}
}

// NewConflictError reports a uniqueness violation
func NewConflictError(detail string) *APIError {
	return &APIError{
		Type:   ErrorTypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
		Detail: detail,
	}
}

// NewForbiddenError reports a permission-gate rejection
func NewForbiddenError(detail string) *APIError {
	return &APIError{
		Type:   ErrorTypeForbidden,
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: detail,
	}
}

// NewUnauthorizedError reports a missing or invalid credential
func NewUnauthorizedError(detail string) *APIError {
	return &APIError{
		Type:   ErrorTypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
	}
}

// NewInternalError reports an unexpected failure inside an operation
func NewInternalError(detail string) *APIError {
	return &APIError{
		Type:   ErrorTypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: detail,
	}
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"lt":       "Must be less than maximum value",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"len":      "Must be exactly the specified length",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
