package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"

	// DefaultAnthropicModel is used when ANTHROPIC_MODEL is unset.
	DefaultAnthropicModel = "claude-sonnet-4-5"
)

// AnthropicClient is the Generator backed by the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewAnthropicClient returns a Generator that calls the Anthropic API.
//   - apiKey: your ANTHROPIC_API_KEY
//   - model:  e.g. "claude-sonnet-4-5"
func NewAnthropicClient(apiKey, model string) (*AnthropicClient, error) {
	if !UsableKey(apiKey) {
		return nil, ErrCredentialMissing
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicClient{
		apiKey: apiKey,
		model:  model,
		url:    anthropicURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// WithURL points the client at a different Messages endpoint (a proxy, or an
// httptest server).
func (c *AnthropicClient) WithURL(url string) *AnthropicClient {
	c.url = url
	return c
}

// ─── ANTHROPIC API SHAPES ─────────────────────────────────────────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

const anthropicSystem = "You are a Cultural Communication Expert. Respond ONLY with valid JSON, no markdown fences, no preamble."

// Name implements Generator.
func (c *AnthropicClient) Name() string { return "anthropic" }

// Generate sends one request to the Anthropic Messages API and returns the
// text content of the first text block.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.call(ctx, anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    anthropicSystem,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", &ProviderError{Provider: c.Name(), Err: err}
	}
	return text, nil
}

func (c *AnthropicClient) call(ctx context.Context, reqBody anthropicRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status %d", ErrQuotaExceeded, resp.StatusCode)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("API error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}

	return "", errors.New("no text content in response")
}
