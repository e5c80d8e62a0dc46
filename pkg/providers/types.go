package providers

import "time"

// Type identifies which adapter implementation serves a descriptor.
// The set of types is closed; the factory maps each one to a constructor.
type Type string

// Supported adapter types.
const (
	TypeOpenAI    Type = "openai"
	TypeAnthropic Type = "anthropic"
	TypeGeneric   Type = "generic"
)

// Descriptor is the static configuration of one provider.
// Descriptors are built once from configuration and never mutated.
type Descriptor struct {
	// Name is the provider identifier used in the ledger and in results.
	Name string

	// Type selects the adapter implementation.
	Type Type

	// Model is the backend model identifier.
	Model string

	// BaseURL overrides the vendor endpoint. Required for generic providers.
	BaseURL string

	// APIKey is the credential. A missing key leaves the provider
	// unconfigured for the lifetime of the process.
	APIKey string

	// Weight is the static preference in [0, 1] used by the selector.
	Weight float64

	// CostPer1KTokens is the blended price per thousand tokens.
	CostPer1KTokens float64

	// DailyTokenQuota caps tokens per UTC day. Zero means unlimited.
	DailyTokenQuota int64

	// MaxTokens caps the completion length requested from the backend.
	MaxTokens int

	// Temperature is passed through to the backend when non-zero.
	Temperature float64

	// Streaming is declared by some backends but not used by the core.
	Streaming bool

	// Timeout bounds a single HTTP exchange inside the adapter.
	Timeout time.Duration

	// MaxRetries is the number of retries on transient errors.
	MaxRetries int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool.
	IdleConnTimeout time.Duration
}

// Prompt is one instruction pair sent to a backend.
type Prompt struct {
	// Style names the prompt variant that produced this prompt.
	Style string

	// System is the system instruction.
	System string

	// User is the user message.
	User string
}

// Empty reports whether the prompt has no user text.
func (p Prompt) Empty() bool {
	return len(p.User) == 0
}

// Options tunes a single completion call.
type Options struct {
	// MaxTokens overrides Descriptor.MaxTokens when positive.
	MaxTokens int

	// Temperature overrides Descriptor.Temperature when positive.
	Temperature float64
}

// TokenUsage represents token consumption reported by a backend.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is a normalized successful backend response.
type Completion struct {
	// Text is the generated content.
	Text string

	// Model is the model that produced the text as reported by the backend.
	Model string

	// Usage is the reported or estimated token usage.
	Usage TokenUsage

	// Estimated is true when Usage was derived from text length because
	// the backend did not report usage.
	Estimated bool

	// FinishReason is the normalized stop reason.
	FinishReason string
}

// Outcome is the result of one Generate call for one provider.
type Outcome struct {
	Provider   string
	Success    bool
	Text       string
	Tokens     int
	Cost       float64
	Latency    time.Duration
	ErrorClass ErrorClass
	Err        error
}

// Finish reason constants
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)
