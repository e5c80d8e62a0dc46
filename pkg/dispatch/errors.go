package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllProvidersFailed matches AllProvidersFailedError with errors.Is.
var ErrAllProvidersFailed = errors.New("all providers failed")

// AllProvidersFailedError is returned when no provider was eligible or
// every dispatched call failed. The orchestrator answers it with the
// fallback synthesizer.
type AllProvidersFailedError struct {
	// AttemptedProviders are the providers that were dispatched. Empty
	// when nothing was eligible.
	AttemptedProviders []string

	// LastError is the error of the last attempted provider in name order.
	LastError error
}

// Error implements the error interface.
func (e *AllProvidersFailedError) Error() string {
	if len(e.AttemptedProviders) == 0 {
		return "all providers failed: no eligible providers"
	}
	return fmt.Sprintf("all providers failed (attempted: %s, last error: %v)",
		strings.Join(e.AttemptedProviders, ", "), e.LastError)
}

// Is implements error matching for errors.Is().
func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// Unwrap returns the last provider error.
func (e *AllProvidersFailedError) Unwrap() error {
	return e.LastError
}
