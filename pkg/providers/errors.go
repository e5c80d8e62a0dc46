package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorClass is the coarse category of a provider failure.
// The ledger reacts to the class, never to the concrete error.
type ErrorClass string

// Error classes.
const (
	ClassNone            ErrorClass = ""
	ClassUnconfigured    ErrorClass = "unconfigured"
	ClassTimeout         ErrorClass = "timeout"
	ClassAuthFailed      ErrorClass = "auth_failed"
	ClassQuotaExhausted  ErrorClass = "quota_exhausted"
	ClassRateLimited     ErrorClass = "rate_limited"
	ClassServerError     ErrorClass = "server_error"
	ClassInvalidResponse ErrorClass = "invalid_response"
	ClassInvalid         ErrorClass = "invalid"
	ClassCanceled        ErrorClass = "canceled"
)

// ProviderError represents a general provider error.
// It includes the provider name, HTTP status code, and underlying error.
type ProviderError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure (HTTP 401 or 403).
type AuthError struct {
	Provider string
	Message  string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// QuotaError means the account behind the credential has no quota left
// for the current billing window. Unlike RateLimitError it does not clear
// after a short wait.
type QuotaError struct {
	Provider string
	Message  string
}

// Error implements the error interface.
func (e *QuotaError) Error() string {
	return fmt.Sprintf("provider %q quota exhausted: %s", e.Provider, e.Message)
}

// RateLimitError represents a transient rate limit (HTTP 429).
type RateLimitError struct {
	Provider string

	// RetryAfter is the duration to wait before retrying (if provided)
	RetryAfter time.Duration

	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Provider, e.Message)
}

// TimeoutError represents a call that exceeded its deadline.
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// Is lets errors.Is(err, context.DeadlineExceeded) match timeouts.
func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// ParseError represents a malformed or empty backend response.
type ParseError struct {
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a call rejected before reaching the backend.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConfigError represents a provider configuration error.
type ConfigError struct {
	Provider string
	Field    string
	Message  string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// ErrUnconfigured is returned for calls to a provider without credentials.
var ErrUnconfigured = errors.New("provider is not configured")

// Classify maps an error returned by an adapter to its ErrorClass.
// A nil error classifies as ClassNone.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}

	var (
		authErr  *AuthError
		quotaErr *QuotaError
		rateErr  *RateLimitError
		timeErr  *TimeoutError
		parseErr *ParseError
		valErr   *ValidationError
		cfgErr   *ConfigError
		provErr  *ProviderError
	)

	switch {
	case errors.Is(err, ErrUnconfigured), errors.As(err, &cfgErr):
		return ClassUnconfigured
	case errors.As(err, &authErr):
		return ClassAuthFailed
	case errors.As(err, &quotaErr):
		return ClassQuotaExhausted
	case errors.As(err, &rateErr):
		return ClassRateLimited
	case errors.As(err, &timeErr), errors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	case errors.Is(err, context.Canceled):
		return ClassCanceled
	case errors.As(err, &parseErr):
		return ClassInvalidResponse
	case errors.As(err, &valErr):
		return ClassInvalid
	case errors.As(err, &provErr):
		return ClassServerError
	default:
		return ClassServerError
	}
}

// isQuotaBody reports whether an error body describes exhausted billing
// quota rather than a short-lived rate limit.
func isQuotaBody(body string) bool {
	b := strings.ToLower(body)
	return strings.Contains(b, "insufficient_quota") ||
		strings.Contains(b, "quota_exceeded") ||
		strings.Contains(b, "credit balance is too low") ||
		strings.Contains(b, "exceeded your current quota")
}
