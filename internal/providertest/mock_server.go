package providertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is an HTTP server that replays canned vendor responses.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	requests  map[string]int
	headers   http.Header
	mu        sync.Mutex
}

// MockResponse defines a mock response for one path.
type MockResponse struct {
	StatusCode int
	Body       any
	Delay      time.Duration
	Headers    map[string]string
}

// NewMockServer creates and starts a mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
		requests:  make(map[string]int),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets the response for a path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// RequestCount returns how many requests hit path.
func (ms *MockServer) RequestCount(path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requests[path]
}

// LastHeaders returns the headers of the most recent request.
func (ms *MockServer) LastHeaders() http.Header {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.headers.Clone()
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.requests[r.URL.Path]++
	ms.headers = r.Header.Clone()
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(response.StatusCode)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

// OpenAIResponse creates a chat completion response body.
func OpenAIResponse(content, model string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   model,
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// AnthropicResponse creates a Messages API response body.
func AnthropicResponse(content, model string) map[string]any {
	return map[string]any{
		"id":   "msg_123",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": content},
		},
		"model":       model,
		"stop_reason": "end_turn",
		"usage": map[string]any{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
}

// ErrorResponse creates a vendor-style error body with the given status.
func ErrorResponse(statusCode int, errType, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body: map[string]any{
			"error": map[string]any{
				"message": message,
				"type":    errType,
				"code":    errType,
			},
		},
	}
}

// AuthError creates a 401 response.
func AuthError() MockResponse {
	return ErrorResponse(http.StatusUnauthorized, "invalid_api_key", "Invalid API key")
}

// RateLimitError creates a transient 429 response.
func RateLimitError(retryAfter int) MockResponse {
	r := ErrorResponse(http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded")
	r.Headers = map[string]string{"Retry-After": fmt.Sprintf("%d", retryAfter)}
	return r
}

// QuotaError creates a 429 response whose body reports exhausted quota.
func QuotaError() MockResponse {
	return ErrorResponse(http.StatusTooManyRequests, "insufficient_quota", "You exceeded your current quota")
}

// ServerError creates a 500 response.
func ServerError() MockResponse {
	return ErrorResponse(http.StatusInternalServerError, "server_error", "Internal server error")
}
