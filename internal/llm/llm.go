// Package llm abstracts the text generation backends: a local Ollama
// instance, the OpenRouter API, or the deterministic offline mock.
package llm

import "context"

// Generator produces a completion for a prompt. Implementations are safe
// for concurrent use.
type Generator interface {
	// Name identifies the backend in logs and status output.
	Name() string
	// Generate returns the model's response text for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
