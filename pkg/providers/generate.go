package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultTimeout bounds a Generate call when no timeout is given.
const DefaultTimeout = 30 * time.Second

type completionResult struct {
	completion *Completion
	err        error
}

// Generate calls the adapter with a hard timeout and converts the result
// into an Outcome. It always returns within timeout (plus scheduling
// jitter); a result that arrives later is discarded.
//
// Generate never records usage. Callers feed the Outcome to the ledger.
func Generate(ctx context.Context, a Adapter, prompt Prompt, opts Options, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	start := time.Now()
	name := a.Name()

	fail := func(err error) Outcome {
		return Outcome{
			Provider:   name,
			Latency:    time.Since(start),
			ErrorClass: Classify(err),
			Err:        err,
		}
	}

	if !a.Configured() {
		return fail(fmt.Errorf("%s: %w", name, ErrUnconfigured))
	}
	if prompt.Empty() {
		return fail(&ValidationError{Field: "prompt", Message: "prompt is empty"})
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so the adapter goroutine can always deliver and exit, even
	// after Generate has stopped listening.
	results := make(chan completionResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- completionResult{err: &ProviderError{
					Provider: name,
					Message:  fmt.Sprintf("adapter panic: %v", r),
				}}
			}
		}()
		c, err := a.Complete(callCtx, prompt, opts)
		results <- completionResult{completion: c, err: err}
	}()

	select {
	case r := <-results:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
				r.err = &TimeoutError{Provider: name, Timeout: timeout}
			}
			return fail(r.err)
		}
		if r.completion == nil || strings.TrimSpace(r.completion.Text) == "" {
			return fail(&ParseError{Provider: name, Cause: errors.New("empty completion")})
		}
		c := r.completion
		if c.Usage.TotalTokens <= 0 {
			c.Usage = EstimateUsage(prompt, c.Text)
			c.Estimated = true
		}
		return Outcome{
			Provider: name,
			Success:  true,
			Text:     c.Text,
			Tokens:   c.Usage.TotalTokens,
			Latency:  time.Since(start),
		}

	case <-callCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return fail(ctx.Err())
		}
		slog.Warn("provider call timed out",
			"provider", name,
			"timeout", timeout,
		)
		return fail(&TimeoutError{Provider: name, Timeout: timeout})
	}
}

// TestConnection runs the adapter's probe bounded by timeout.
func TestConnection(ctx context.Context, a Adapter, timeout time.Duration) error {
	if !a.Configured() {
		return fmt.Errorf("%s: %w", a.Name(), ErrUnconfigured)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errs <- &ProviderError{Provider: a.Name(), Message: fmt.Sprintf("probe panic: %v", r)}
			}
		}()
		errs <- a.TestConnection(probeCtx)
	}()

	select {
	case err := <-errs:
		return err
	case <-probeCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return &TimeoutError{Provider: a.Name(), Timeout: timeout}
	}
}
