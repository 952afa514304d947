package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched with errors.Is
var (
	// ErrNotFound is a 404 from the data source, usually a wrong endpoint
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest is a rejected range, locally or by a 400 response
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServerError is any 5xx response
	ErrServerError = errors.New("server error")

	// ErrTimeout means the context ended before a response arrived
	ErrTimeout = errors.New("request timed out")

	// ErrDecode means the response body is not a JSON array of items
	ErrDecode = errors.New("undecodable response body")
)

// APIError is a non-200 response from the data source. Message holds the
// start of the response body when there was one.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error %d: %s (endpoint: %s)", e.StatusCode, e.Status, e.Endpoint)
	}
	return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Endpoint, e.Message)
}

// Is maps status codes onto the sentinel errors
func (e *APIError) Is(target error) bool {
	switch {
	case target == ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case target == ErrInvalidRequest:
		return e.StatusCode == http.StatusBadRequest
	case target == ErrServerError:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// NewAPIError builds an error from the response status line
func NewAPIError(statusCode int, status, endpoint string) *APIError {
	return &APIError{StatusCode: statusCode, Status: status, Endpoint: endpoint}
}

// NewAPIErrorWithMessage builds an error carrying the response body text
func NewAPIErrorWithMessage(statusCode int, endpoint, message string) *APIError {
	return &APIError{StatusCode: statusCode, Endpoint: endpoint, Message: message}
}

// Retryable reports whether asking for the same range again may succeed:
// timeouts, transport failures, 5xx and 429 are retryable, rejected ranges
// and undecodable bodies are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError ||
			apiErr.StatusCode == http.StatusTooManyRequests
	}
	return !errors.Is(err, ErrInvalidRequest) && !errors.Is(err, ErrDecode)
}

// ValidationError is a setting or request field that cannot be used
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Is lets validation failures match ErrInvalidRequest
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrInvalidValue reports a field holding an unusable value
func ErrInvalidValue(field string, value interface{}) error {
	return NewValidationError(field, fmt.Sprintf("invalid value: %v", value))
}
