// Package generic implements an adapter for OpenAI-compatible endpoints.
//
// It works with any server that implements the chat completions format:
//
//   - Ollama (http://localhost:11434/v1)
//   - LM Studio (http://localhost:1234/v1)
//   - vLLM (http://localhost:8000/v1)
//   - LocalAI (http://localhost:8080/v1)
//
// The API key is optional. Local servers often omit token usage; the
// providers package estimates it from text length in that case.
//
// Compared to cloud providers, local models typically need longer
// timeouts and fewer retries, so MaxRetries defaults to 1.
package generic
