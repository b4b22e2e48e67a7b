// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing else reads os.Getenv.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port           string        // default "8080"
	Env            string        // "development" | "staging" | "production"
	RequestTimeout time.Duration // default 30s, chi Timeout middleware

	// ── Gemini ────────────────────────────────────────────────────────────────
	GeminiAPIKey string
	GeminiModel  string // default "gemini-2.5-flash"

	// ── OpenAI-compatible (OpenAI, OpenRouter, DeepSeek) ─────────────────────
	OpenAIAPIKey  string
	OpenAIBaseURL string   // empty means api.openai.com
	OpenAIModels  []string // tried in order; default ["gpt-4o-mini"]

	// ── Anthropic ─────────────────────────────────────────────────────────────
	AnthropicAPIKey string
	AnthropicModel  string // default "claude-sonnet-4-5"

	// ── AI ────────────────────────────────────────────────────────────────────
	// All provider keys are optional. With none set the service answers from
	// the heuristic engine only.
	ProviderTimeout time.Duration // default 20s
}

// Load reads all environment variables and returns a validated Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv(".env")

	c := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		OpenAIModels:    getEnvAsList("OPENAI_MODELS", []string{"gpt-4o-mini"}),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		ProviderTimeout: getEnvAsDuration("PROVIDER_TIMEOUT", 20*time.Second),
	}

	return c, c.validate()
}

func (c *Config) validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}

	positive := map[string]time.Duration{
		"REQUEST_TIMEOUT":  c.RequestTimeout,
		"PROVIDER_TIMEOUT": c.ProviderTimeout,
	}
	for name, d := range positive {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}

	// The provider call has to finish before chi's Timeout cancels the request,
	// otherwise the heuristic fallback never gets a chance to run.
	if c.ProviderTimeout >= c.RequestTimeout {
		errs = append(errs, fmt.Errorf("PROVIDER_TIMEOUT (%s) must be shorter than REQUEST_TIMEOUT (%s)",
			c.ProviderTimeout, c.RequestTimeout))
	}

	return errors.Join(errs...)
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv reads key=value pairs from path and sets them in the environment,
// but only for keys that are not already set. This means real env vars (e.g.
// from Docker / Railway / your shell) always win over the file.
// Missing file, blank lines, and #-comments are all silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // no .env file
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.TrimSpace(value)
		// Strip optional surrounding quotes: KEY="value" or KEY='value'
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A plain integer is seconds.
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
