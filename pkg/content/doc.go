// Package content defines the request and result values exchanged with the
// orchestrator, plus the small text helpers shared by the scoring,
// enhancement and metadata stages.
//
// Requests are constructed with NewRequest, which trims input, applies
// defaults (anchor text falls back to the keyword, 800 words, professional
// tone, medium SEO focus) and rejects malformed values before any provider
// is contacted.
package content
