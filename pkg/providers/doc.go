// Package providers implements the backend abstraction used by the
// content orchestrator.
//
// # Overview
//
// Every text-generation backend is wrapped in an Adapter. Adapters are
// built from a static Descriptor and expose four operations: Name,
// Configured, TestConnection and Complete. They do not keep usage state;
// accounting is the job of the usage ledger.
//
// # Calling adapters
//
// Callers do not invoke Complete directly. Generate wraps it with a hard
// timeout, classifies failures and returns an Outcome:
//
//	out := providers.Generate(ctx, adapter, prompt, providers.Options{}, 30*time.Second)
//	if !out.Success {
//	    log.Printf("%s failed: %s", out.Provider, out.ErrorClass)
//	}
//
// A call that does not finish in time yields ClassTimeout; the late
// result, if any, is dropped.
//
// # Errors
//
// HTTP failures are mapped to typed errors by HTTPProvider:
//
//   - 401/403: AuthError (ClassAuthFailed)
//   - 402, or 429 with an insufficient-quota body: QuotaError (ClassQuotaExhausted)
//   - 429: RateLimitError (ClassRateLimited)
//   - 5xx and transport errors: ProviderError after retries (ClassServerError)
//   - undecodable or empty bodies: ParseError (ClassInvalidResponse)
//
// Classify maps any adapter error to its ErrorClass.
//
// # Adapters
//
// Concrete adapters live in subpackages: openai (official SDK), anthropic
// and generic (OpenAI-compatible endpoints such as Ollama or vLLM). The
// providerfactory package maps Descriptor.Type to a constructor.
package providers
