package moderation

import (
	"context"
	"fmt"
	"strings"
)

// Categories reported for the built-in detectors.
const (
	CategoryInjection = "prompt_injection"
	CategoryPII       = "pii"
)

// Verdict is the result of moderating one request.
type Verdict struct {
	// Allowed is false when a blocking category matched.
	Allowed bool

	// RequiresReview is set when a review category matched. An allowed
	// request can still require review.
	RequiresReview bool

	// Categories lists every matched category in sorted order.
	Categories []string
}

// Decision is the single label used in logs and metrics.
func (v Verdict) Decision() string {
	switch {
	case !v.Allowed:
		return "rejected"
	case v.RequiresReview:
		return "review"
	default:
		return "allowed"
	}
}

// Gate decides whether a request may be generated.
type Gate interface {
	Moderate(ctx context.Context, text string) (Verdict, error)
}

// AllowAll is the gate used when moderation is disabled.
type AllowAll struct{}

// Moderate always allows.
func (AllowAll) Moderate(context.Context, string) (Verdict, error) {
	return Verdict{Allowed: true}, nil
}

// RejectedError is returned by the orchestrator when the gate blocks a
// request. No provider is called.
type RejectedError struct {
	Categories []string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("request rejected by moderation: %s", strings.Join(e.Categories, ", "))
}

// Is reports whether target is a RejectedError, so errors.Is matches any
// rejection regardless of categories.
func (e *RejectedError) Is(target error) bool {
	_, ok := target.(*RejectedError)
	return ok
}
