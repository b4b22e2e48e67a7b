package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCredentialMissing means no usable provider credential is configured.
// The Analyzer goes straight to the heuristic engine without a provider call.
var ErrCredentialMissing = errors.New("ai: credential missing")

// ErrQuotaExceeded indicates the provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai: quota exceeded")

// ProviderError wraps a transport failure, a non-2xx response, a timeout or an
// empty completion from a provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai: provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError means the provider answered but its output could not be turned
// into results: invalid JSON after fence stripping, a JSON value that is
// neither object nor list, or an unrecognised risk level.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ai: parse response: %v (raw: %.200s)", e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UsableKey reports whether a configured credential can be sent to a provider.
// Empty keys and the "paste_your_key_here" placeholder from the sample .env
// are treated as missing.
func UsableKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !strings.Contains(key, "paste_your")
}

// failureKind classifies err for metric labels. Success is "".
func failureKind(err error) string {
	var parseErr *ParseError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCredentialMissing):
		return "credential_missing"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "provider"
	}
}
