// Package ai defines the interface to the external generative-model providers
// and the Analyzer that turns a model's JSON output into culture results,
// falling back to the heuristic engine whenever the provider path fails.
package ai

import "context"

// Generator is the opaque "send a prompt, get text back" collaborator.
// The concrete implementations live in gemini.go, openai.go and anthropic.go;
// each carries its own credential and model name.
// Tests inject a stub that returns canned responses.
type Generator interface {
	// Name identifies the provider in logs and metric labels.
	Name() string

	// Generate sends prompt to the model and returns its raw text output.
	//
	// Implementations must be safe to call concurrently.
	// A non-nil error means no usable text was produced; the Analyzer will
	// fall back to the heuristic engine.
	Generate(ctx context.Context, prompt string) (string, error)
}
