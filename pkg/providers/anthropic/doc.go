// Package anthropic implements the Anthropic Messages API adapter.
//
// The system prompt is sent in the dedicated system field and the user
// prompt as a single user message. max_tokens is mandatory for this API
// and defaults to 4096. TestConnection lists models, which validates the
// key without spending tokens.
package anthropic
