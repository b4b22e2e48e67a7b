package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// fallbackGenerator wraps an ordered list of Generators. It calls each in
// turn; the first one to succeed wins. This gives you Gemini as the default
// with an OpenAI-compatible or Anthropic provider as the safety net (the
// order is chosen in main.go).
type fallbackGenerator struct {
	generators []Generator
	logger     *slog.Logger
}

// NewFallbackGenerator returns a Generator that tries each of generators in
// order. Nil entries are skipped. With no generators left, Generate returns
// ErrCredentialMissing.
func NewFallbackGenerator(logger *slog.Logger, generators ...Generator) Generator {
	kept := make([]Generator, 0, len(generators))
	for _, g := range generators {
		if g != nil {
			kept = append(kept, g)
		}
	}
	return &fallbackGenerator{generators: kept, logger: logger}
}

// Name lists the wrapped providers, e.g. "gemini>openai".
func (f *fallbackGenerator) Name() string {
	names := make([]string, len(f.generators))
	for i, g := range f.generators {
		names[i] = g.Name()
	}
	return strings.Join(names, ">")
}

// Generate tries each Generator. If one fails and another is configured, it
// logs the failure and moves on. When all fail the errors are joined.
func (f *fallbackGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if len(f.generators) == 0 {
		return "", ErrCredentialMissing
	}

	var errs []error
	for i, g := range f.generators {
		text, err := g.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
		if i < len(f.generators)-1 {
			f.logger.Warn("ai: provider failed, trying next",
				"provider", g.Name(),
				"next", f.generators[i+1].Name(),
				"error", err,
			)
		}
	}
	return "", fmt.Errorf("ai: all providers failed: %w", errors.Join(errs...))
}
