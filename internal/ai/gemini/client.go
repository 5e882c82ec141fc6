package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

)

const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultEmbeddingModel = "text-embedding-004"

	retryBackoff  = time.Second
	maxRetryDelay = 10 * time.Second
)

var (
	wait = waitFor

	retryDelayPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Generator wraps the Google GenAI client. It implements ai.Completer and
// ai.Embedder.
type Generator struct {
	models         models
	model          string
	embeddingModel string
	maxAttempts    int
	logger         *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
// maxAttempts bounds calls per prompt; values below 1 mean a single attempt.
func NewGenerator(ctx context.Context, apiKey, model, embeddingModel string, maxAttempts int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if embeddingModel = strings.TrimSpace(embeddingModel); embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:         client.Models,
		model:          model,
		embeddingModel: embeddingModel,
		maxAttempts:    maxAttempts,
		logger:         logger,
	}, nil
}

// Complete sends the prompt to Gemini and returns the joined text parts of
// the response, retrying temporary API errors up to the configured attempts.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	attempts := g.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err == nil {
			return responseText(resp)
		}

		lastErr = err
		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// Embed returns the embedding of text computed by the configured embedding model.
func (g *Generator) Embed(ctx context.Context, text string) ([]float64, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini generator is not initialized")
	}

	resp, err := g.models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini api returned empty embedding")
	}

	values := resp.Embeddings[0].Values
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}

	return vector, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) EmbeddingModel() string {
	if g == nil {
		return ""
	}
	return g.embeddingModel
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay reports whether err is temporary and how long to wait before
// the next attempt. Quota errors are retried only when the server asks for a
// short pause.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return 0, false
		}
		apiErr = *ptr
	}

	switch apiErr.Code {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return time.Duration(attempt) * retryBackoff, true
	case http.StatusTooManyRequests:
		match := retryDelayPattern.FindStringSubmatch(apiErr.Message)
		if match == nil {
			return time.Duration(attempt) * retryBackoff, true
		}
		seconds, parseErr := strconv.ParseFloat(match[1], 64)
		if parseErr != nil {
			return 0, false
		}
		delay := time.Duration(seconds * float64(time.Second))
		if delay > maxRetryDelay {
			return 0, false
		}
		return delay, true
	default:
		return 0, false
	}
}
