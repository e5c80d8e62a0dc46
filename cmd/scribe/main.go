// Scribe generates SEO articles by racing several LLM providers and
// keeping the best draft.
//
// Every request yields exactly one article: when no provider produces a
// usable draft, an offline synthesizer writes one that still carries the
// required link.
//
// Usage:
//
//	# Generate one article
//	scribe generate --keyword "espresso machines" --url https://example.com/buy
//
//	# Check which providers are reachable
//	scribe preflight --config scribe.yaml
//
//	# Show today's token and cost usage
//	scribe usage --output csv
//
//	# Serve the HTTP API
//	scribe serve --config scribe.yaml
package main

func main() {
	Execute()
}
