// Package openai talks to OpenAI-compatible chat and embedding endpoints. It
// serves both the hosted OpenAI API and a local Ollama server, which exposes
// the same API under /v1.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const (
	DefaultModel          = "gpt-3.5-turbo"
	DefaultEmbeddingModel = "text-embedding-3-small"

	DefaultOllamaURL            = "http://localhost:11434/v1/"
	DefaultOllamaModel          = "mistral"
	DefaultOllamaEmbeddingModel = "all-minilm"

	// Ollama ignores the bearer token but the client always sends one.
	ollamaAPIKey = "ollama"
)

type Config struct {
	APIKey string
	// BaseURL overrides the API root. Empty means the hosted OpenAI API.
	BaseURL        string
	Model          string
	EmbeddingModel string
}

// Client implements ai.Completer and ai.Embedder.
type Client struct {
	client         *sdk.Client
	model          string
	embeddingModel string
	logger         *zap.Logger
}

// New creates a client for the hosted API. An API key is required.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if cfg.Model = strings.TrimSpace(cfg.Model); cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.EmbeddingModel = strings.TrimSpace(cfg.EmbeddingModel); cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		client:         sdk.NewClient(opts...),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		logger:         logger,
	}, nil
}

// NewOllama creates a client for a local Ollama server. Empty values fall
// back to the defaults.
func NewOllama(baseURL, model, embeddingModel string, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOllamaURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultOllamaModel
	}
	if strings.TrimSpace(embeddingModel) == "" {
		embeddingModel = DefaultOllamaEmbeddingModel
	}

	return New(Config{
		APIKey:         ollamaAPIKey,
		BaseURL:        baseURL,
		Model:          model,
		EmbeddingModel: embeddingModel,
	}, logger)
}

// Complete sends the prompt as a single user message and returns the first
// choice's text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Messages: sdk.F([]sdk.ChatCompletionMessageParamUnion{
			sdk.UserMessage(prompt),
		}),
		Model: sdk.F(sdk.ChatModel(c.model)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	c.logger.Debug("chat completion finished",
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed returns the embedding vector of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.client.Embeddings.New(ctx, sdk.EmbeddingNewParams{
		Input: sdk.F[sdk.EmbeddingNewParamsInputUnion](sdk.EmbeddingNewParamsInputArrayOfStrings{text}),
		Model: sdk.F(sdk.EmbeddingModel(c.embeddingModel)),
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response is empty")
	}

	return resp.Data[0].Embedding, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) EmbeddingModel() string {
	if c == nil {
		return ""
	}
	return c.embeddingModel
}
