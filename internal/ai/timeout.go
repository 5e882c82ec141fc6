package ai

import (
	"context"
	"time"
)

type timeoutCompleter struct {
	Completer
	timeout time.Duration
}

func (t timeoutCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Completer.Complete(ctx, prompt)
}

type timeoutEmbedder struct {
	Embedder
	timeout time.Duration
}

func (t timeoutEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Embedder.Embed(ctx, text)
}

// CompleterWithTimeout bounds every call of c by d. A non-positive d returns c
// unchanged.
func CompleterWithTimeout(c Completer, d time.Duration) Completer {
	if d <= 0 {
		return c
	}
	return timeoutCompleter{Completer: c, timeout: d}
}

// EmbedderWithTimeout bounds every call of e by d. A non-positive d returns e
// unchanged.
func EmbedderWithTimeout(e Embedder, d time.Duration) Embedder {
	if d <= 0 {
		return e
	}
	return timeoutEmbedder{Embedder: e, timeout: d}
}
