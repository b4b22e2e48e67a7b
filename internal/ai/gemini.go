package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is the Generator backed by the Google Generative Language API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient returns a Generator that calls Gemini.
//   - apiKey: your GEMINI_API_KEY
//   - model:  e.g. "gemini-2.5-flash"
//
// Returns ErrCredentialMissing when apiKey is not usable. The caller owns the
// returned client and must Close it on shutdown.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if !UsableKey(apiKey) {
		return nil, ErrCredentialMissing
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Name implements Generator.
func (c *GeminiClient) Name() string { return "gemini" }

// Generate sends prompt as a single text part and returns the concatenated
// text parts of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Provider: c.Name(), Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ProviderError{Provider: c.Name(), Err: errors.New("no candidates in response")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", &ProviderError{Provider: c.Name(), Err: errors.New("empty response")}
	}
	return sb.String(), nil
}

// Close releases the underlying gRPC connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
