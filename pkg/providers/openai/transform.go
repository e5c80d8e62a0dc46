package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/openai/openai-go"

	"mercator-hq/scribe/pkg/providers"
)

func buildParams(desc providers.Descriptor, prompt providers.Prompt, opts providers.Options) sdk.ChatCompletionNewParams {
	var msgs []sdk.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, sdk.SystemMessage(prompt.System))
	}
	msgs = append(msgs, sdk.UserMessage(prompt.User))

	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(desc.Model),
		Messages: msgs,
	}

	maxTokens := desc.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = sdk.Int(int64(maxTokens))
	}

	temperature := desc.Temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	if temperature > 0 {
		params.Temperature = sdk.Float(temperature)
	}
	return params
}

func parseCompletion(resp *sdk.ChatCompletion) (*providers.Completion, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errors.New("empty choices")
	}
	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, errors.New("empty message content")
	}
	return &providers.Completion{
		Text:         choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// mapError converts SDK errors into the providers error taxonomy.
func mapError(desc providers.Descriptor, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &providers.TimeoutError{Provider: desc.Name, Timeout: desc.Timeout}
	}

	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) {
		return &providers.ProviderError{Provider: desc.Name, Message: "transport failure", Cause: err}
	}

	msg := apiErr.Message
	if msg == "" {
		msg = fmt.Sprintf("%s %s", apiErr.Type, apiErr.Code)
	}

	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return &providers.AuthError{Provider: desc.Name, Message: msg}
	case apiErr.StatusCode == http.StatusPaymentRequired,
		apiErr.Code == "insufficient_quota", apiErr.Type == "insufficient_quota":
		return &providers.QuotaError{Provider: desc.Name, Message: msg}
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return &providers.RateLimitError{Provider: desc.Name, Message: msg}
	default:
		return &providers.ProviderError{
			Provider:   desc.Name,
			StatusCode: apiErr.StatusCode,
			Message:    msg,
			Cause:      err,
		}
	}
}
