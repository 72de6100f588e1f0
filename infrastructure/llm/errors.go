package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client and providers.
var (
	// ErrEmptyAPIKey indicates that an API key was required but not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	// ErrEmptyResponse indicates that the provider returned an empty body.
	ErrEmptyResponse = errors.New("empty response from API")
	// ErrNoResponseChoice indicates that the response contained no choices.
	ErrNoResponseChoice = errors.New("no response choices returned")
)

// ErrorType classifies a provider error for standardized handling.
// Every category routes the analysis to the fallback path; the type is
// recorded in logs and metrics, not used for retries.
type ErrorType int

const (
	// ErrorTypeUnknown is an error of undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication is an invalid or rejected credential.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit is an exceeded provider rate limit.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest is a malformed request or invalid parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound is a missing resource, usually a model name.
	ErrorTypeNotFound
	// ErrorTypeServerError is a failure on the provider's side.
	ErrorTypeServerError
	// ErrorTypeNetwork is a client-side network problem.
	ErrorTypeNetwork
	// ErrorTypeTimeout is an expired request deadline.
	ErrorTypeTimeout
)

// String returns the log-friendly name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeAuthentication:
		return "authentication"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeBadRequest:
		return "bad_request"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeServerError:
		return "server_error"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ProviderError normalizes provider-specific failures into a common shape
// with a classified type and the original error preserved for unwrapping.
type ProviderError struct {
	// Type classifies the error into a standard category.
	Type ErrorType
	// Provider names the LLM provider that produced the error.
	Provider string
	// StatusCode holds the HTTP status from the response, if applicable.
	StatusCode int
	// Message contains the provider's error message.
	Message string
	// WrappedError holds the original error for chaining.
	WrappedError error
}

// Error satisfies the error interface.
func (e *ProviderError) Error() string {
	base := fmt.Sprintf("%s error", e.Provider)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	base += fmt.Sprintf(" [%s]", e.Type)
	if e.Message != "" {
		base += ": " + e.Message
	}
	if e.WrappedError != nil {
		base += fmt.Sprintf(": %v", e.WrappedError)
	}
	return base
}

// Unwrap returns the wrapped error for errors.Is and errors.As.
func (e *ProviderError) Unwrap() error { return e.WrappedError }

// NewProviderError constructs a classified provider error.
func NewProviderError(provider string, errType ErrorType, statusCode int, message string, wrapped error) *ProviderError {
	return &ProviderError{
		Type:         errType,
		Provider:     provider,
		StatusCode:   statusCode,
		Message:      message,
		WrappedError: wrapped,
	}
}

// ErrorClassifier maps raw provider failures onto the ErrorType taxonomy.
type ErrorClassifier struct {
	// Provider names the provider this classifier reports for.
	Provider string
}

// ClassifyHTTPError maps an HTTP status code to a ProviderError.
func (c *ErrorClassifier) ClassifyHTTPError(statusCode int, message string, wrapped error) *ProviderError {
	var errType ErrorType
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		errType = ErrorTypeAuthentication
	case statusCode == http.StatusTooManyRequests:
		errType = ErrorTypeRateLimit
	case statusCode == http.StatusNotFound:
		errType = ErrorTypeNotFound
	case statusCode >= 400 && statusCode < 500:
		errType = ErrorTypeBadRequest
	case statusCode >= 500:
		errType = ErrorTypeServerError
	default:
		errType = ErrorTypeUnknown
	}
	return NewProviderError(c.Provider, errType, statusCode, message, wrapped)
}

// ClassifyContextError maps a context cancellation or deadline expiry to a
// ProviderError.
func (c *ErrorClassifier) ClassifyContextError(err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(c.Provider, ErrorTypeTimeout, 0, "request timed out", err)
	}
	return NewProviderError(c.Provider, ErrorTypeNetwork, 0, "request canceled", err)
}
