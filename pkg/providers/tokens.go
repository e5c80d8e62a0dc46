package providers

// charsPerToken is the average number of characters per token for
// English text across the supported backends.
const charsPerToken = 4.0

// messageOverhead approximates role and formatting tokens per message.
const messageOverhead = 4

// EstimateTokens estimates the token count of text by character length.
// Non-empty text is always at least one token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := float64(len(text)) / charsPerToken
	if tokens < 1.0 {
		tokens = 1.0
	}
	return int(tokens + 0.5)
}

// EstimateUsage builds a TokenUsage for a prompt/completion pair when the
// backend did not report one.
func EstimateUsage(prompt Prompt, completion string) TokenUsage {
	in := EstimateTokens(prompt.System) + EstimateTokens(prompt.User) + 2*messageOverhead
	out := EstimateTokens(completion)
	return TokenUsage{
		PromptTokens:     in,
		CompletionTokens: out,
		TotalTokens:      in + out,
	}
}
