// Package openai implements the OpenAI adapter on top of the official
// openai-go SDK.
//
// Requests use the chat completions API with an optional system message
// followed by a single user message. SDK errors are mapped onto the
// providers error taxonomy: an insufficient_quota code is reported as
// QuotaError even though the API answers with HTTP 429.
package openai
