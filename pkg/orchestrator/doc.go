// Package orchestrator is the entry point of content generation.
//
// Generate runs a request through the pipeline:
//
//	moderation → preflight (optional) → prompts → dispatch → select
//	  → enhance the winner, or synthesize the fallback article
//	  → metadata → usage write-through
//
// Every well-formed request that passes moderation yields exactly one
// Result. Provider failures are recorded in Result.Providers and in the
// usage ledger; they never reach the caller as errors.
//
// NewFromConfig assembles the pipeline from a loaded configuration and
// returns a Service that owns the usage store and provider connections.
package orchestrator
