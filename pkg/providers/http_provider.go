package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"mercator-hq/scribe/pkg/telemetry/tracing"
)

// maxErrorBody bounds how much of an error response is kept in errors.
const maxErrorBody = 4 << 10

// HTTPProvider is the base implementation for HTTP-based adapters.
// It provides connection pooling, retry logic and status code mapping.
//
// Concrete adapters embed this struct and implement Complete and
// TestConnection on top of DoJSONRequest.
type HTTPProvider struct {
	desc   Descriptor
	client *http.Client

	// backoff is the base delay between retries; attempt n waits backoff*2^(n-1).
	backoff time.Duration
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(desc Descriptor) *HTTPProvider {
	transport := &http.Transport{
		MaxIdleConns:        desc.MaxIdleConns,
		MaxIdleConnsPerHost: desc.MaxIdleConnsPerHost,
		IdleConnTimeout:     desc.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		desc: desc,
		client: &http.Client{
			Transport: transport,
			Timeout:   desc.Timeout,
		},
		backoff: time.Second,
	}
}

// Name returns the provider's configured name.
func (p *HTTPProvider) Name() string {
	return p.desc.Name
}

// Descriptor returns the provider's static configuration.
func (p *HTTPProvider) Descriptor() Descriptor {
	return p.desc
}

// SetRetryBackoff overrides the base retry delay.
func (p *HTTPProvider) SetRetryBackoff(d time.Duration) {
	p.backoff = d
}

// DoRequest performs an HTTP request with retry logic and timeout handling.
// Transient errors (5xx, network failures) are retried with exponential
// backoff; 4xx responses are mapped to typed errors and returned at once.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= p.desc.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * p.backoff
			slog.Debug("retrying request",
				"provider", p.desc.Name,
				"attempt", attempt,
				"max_retries", p.desc.MaxRetries,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return nil, p.contextError(ctx)
			case <-time.After(backoff):
			}
		}

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		if req.Header.Get("Content-Type") == "" && body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		tracing.Inject(ctx, req.Header)

		resp, err := p.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, p.contextError(ctx)
			}
			lastErr = &ProviderError{Provider: p.desc.Name, Message: "transport failure", Cause: err}
			slog.Warn("request failed, will retry",
				"provider", p.desc.Name,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		msg := string(errorBody)

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, &AuthError{Provider: p.desc.Name, Message: msg}

		case resp.StatusCode == http.StatusPaymentRequired:
			return nil, &QuotaError{Provider: p.desc.Name, Message: msg}

		case resp.StatusCode == http.StatusTooManyRequests:
			if isQuotaBody(msg) {
				return nil, &QuotaError{Provider: p.desc.Name, Message: msg}
			}
			return nil, &RateLimitError{
				Provider:   p.desc.Name,
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    msg,
			}

		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, &ProviderError{Provider: p.desc.Name, StatusCode: resp.StatusCode, Message: msg}

		default:
			lastErr = &ProviderError{Provider: p.desc.Name, StatusCode: resp.StatusCode, Message: msg}
			slog.Warn("request returned error status, will retry",
				"provider", p.desc.Name,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
		}
	}

	return nil, lastErr
}

// DoJSONRequest performs a JSON request and decodes the response.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, url string, reqBody, respBody any, headers map[string]string) error {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := p.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return p.contextError(ctx)
		}
		return &ParseError{
			Provider: p.desc.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil {
		if len(responseBytes) == 0 {
			return &ParseError{Provider: p.desc.Name, Cause: fmt.Errorf("empty response body")}
		}
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    p.desc.Name,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// Close releases idle connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) contextError(ctx context.Context) error {
	if ctx.Err() == context.Canceled {
		return ctx.Err()
	}
	return &TimeoutError{Provider: p.desc.Name, Timeout: p.desc.Timeout}
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
