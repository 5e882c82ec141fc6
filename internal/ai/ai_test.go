package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	tests := map[string]Provider{
		"":         ProviderOllama,
		"ollama":   ProviderOllama,
		" OpenAI ": ProviderOpenAI,
		"gemini":   ProviderGemini,
	}

	for input, expect := range tests {
		got, err := ParseProvider(input)
		require.NoError(t, err, input)
		assert.Equal(t, expect, got, input)
	}

	_, err := ParseProvider("anthropic")
	require.EqualError(t, err, "unsupported ai provider: anthropic")
}
