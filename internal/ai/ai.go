// Package ai defines the model capabilities the scorer depends on and selects
// a backend implementation for each of them.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// Provider names a model backend.
type Provider string

const (
	// ProviderOllama is a locally served model reached through Ollama's
	// OpenAI-compatible API.
	ProviderOllama Provider = "ollama"
	// ProviderOpenAI is the hosted OpenAI API.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the hosted Google Gemini API.
	ProviderGemini Provider = "gemini"
)

// Completer sends a prompt to a language model and returns its free-text answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ParseProvider normalizes a configured provider name. Empty selects Ollama.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return ProviderOllama, nil
	case ProviderOllama, ProviderOpenAI, ProviderGemini:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported ai provider: %s", name)
	}
}
