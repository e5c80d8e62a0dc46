package providers

import "context"

// Adapter is the contract every backend implements.
// Adapters are stateless with respect to usage accounting: they never touch
// the ledger, and a failure is reported only through the returned error.
//
// Complete must respect context cancellation. Callers should go through
// Generate, which adds the hard timeout and outcome classification.
type Adapter interface {
	// Name returns the provider's configured name.
	Name() string

	// Descriptor returns the static configuration the adapter was built from.
	Descriptor() Descriptor

	// Configured reports whether credentials (or, for generic backends,
	// an endpoint) are present. The value does not change after construction.
	Configured() bool

	// TestConnection performs a lightweight request to verify the backend
	// is reachable and the credential is accepted.
	TestConnection(ctx context.Context) error

	// Complete sends a single prompt and returns the normalized completion.
	Complete(ctx context.Context, prompt Prompt, opts Options) (*Completion, error)
}
