package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/mira/internal/ai"
	"github.com/spigell/mira/internal/ai/gemini"
	"github.com/spigell/mira/internal/ai/openai"
	"github.com/spigell/mira/internal/logger"
	"github.com/spigell/mira/internal/secrets"
)

// backend is a model client able to both complete and embed.
type backend interface {
	ai.Completer
	ai.Embedder
	Model() string
	EmbeddingModel() string
}

type backends struct {
	completer ai.Completer
	embedder  ai.Embedder
}

// newBackends builds the completion and embedding clients. When both use the
// same provider a single client serves them.
func newBackends(ctx context.Context, cfg AIConfig, log *zap.Logger) (*backends, error) {
	completionProvider, err := ai.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	embeddingProvider, err := ai.ParseProvider(cfg.Embedding.Provider)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	completion, err := newBackend(ctx, completionProvider, cfg, log)
	if err != nil {
		return nil, err
	}

	embedding := completion
	if embeddingProvider != completionProvider {
		if embedding, err = newBackend(ctx, embeddingProvider, cfg, log); err != nil {
			return nil, err
		}
	}

	log.Info("model backends ready",
		zap.String("completion_provider", string(completionProvider)),
		zap.String("completion_model", completion.Model()),
		zap.String("embedding_provider", string(embeddingProvider)),
		zap.String("embedding_model", embedding.EmbeddingModel()),
	)

	return &backends{
		completer: ai.CompleterWithTimeout(completion, cfg.Timeout),
		embedder:  ai.EmbedderWithTimeout(embedding, cfg.Timeout),
	}, nil
}

func newBackend(ctx context.Context, provider ai.Provider, cfg AIConfig, log *zap.Logger) (backend, error) {
	switch provider {
	case ai.ProviderOllama:
		return openai.NewOllama(
			cfg.Ollama.BaseURL,
			cfg.Ollama.Model,
			cfg.Ollama.EmbeddingModel,
			logger.WithModel(log, string(provider), cfg.Ollama.Model),
		)
	case ai.ProviderOpenAI:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (or set ai.openai.api-key-file)", err)
		}

		return openai.New(openai.Config{
			APIKey:         apiKey,
			BaseURL:        cfg.OpenAI.BaseURL,
			Model:          cfg.OpenAI.Model,
			EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		}, logger.WithModel(log, string(provider), cfg.OpenAI.Model))
	case ai.ProviderGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file)", err)
		}

		genLogger := logger.WithModel(log, string(provider), cfg.Gemini.Model).With(
			zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
		)

		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel, cfg.Gemini.MaxRetries+1, genLogger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
}
