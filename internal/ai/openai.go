package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const maxTokens = 1024

// OpenAIClient is the Generator for any OpenAI-compatible chat completions
// endpoint: OpenAI itself, OpenRouter or DeepSeek, depending on baseURL.
// Models are tried in order until one answers.
type OpenAIClient struct {
	client *openai.Client
	models []string
}

// NewOpenAIClient returns a Generator that calls an OpenAI-compatible API.
//   - apiKey:  the provider key
//   - baseURL: e.g. "https://openrouter.ai/api/v1"; empty means api.openai.com
//   - models:  tried in order, e.g. ["google/gemini-2.0-flash-exp", "deepseek/deepseek-chat"]
func NewOpenAIClient(apiKey, baseURL string, models []string) (*OpenAIClient, error) {
	if !UsableKey(apiKey) {
		return nil, ErrCredentialMissing
	}
	if len(models) == 0 {
		return nil, errors.New("openai: at least one model is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), models: models}, nil
}

// Name implements Generator.
func (c *OpenAIClient) Name() string { return "openai" }

// Generate tries each configured model in turn and returns the first
// non-empty completion. If every model fails the errors are joined.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	var errs []error
	for _, model := range c.models {
		text, err := c.complete(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		errs = append(errs, fmt.Errorf("model %s: %w", model, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", &ProviderError{Provider: c.Name(), Err: errors.Join(errs...)}
}

func (c *OpenAIClient) complete(ctx context.Context, model, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no content in response")
	}
	return resp.Choices[0].Message.Content, nil
}
