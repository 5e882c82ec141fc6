package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// SimilarityScale maps a cosine similarity onto the reporting range [-10, 10].
const SimilarityScale = 10

// EmbedFunc turns text into an embedding vector.
type EmbedFunc func(ctx context.Context, text string) ([]float64, error)

// EmbeddingError marks a failure of the embedding backend. Unlike LLM
// failures it is not absorbed into the score and aborts the run.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// Cosine returns the cosine similarity of a and b. A zero vector has no
// direction and yields 0.
func Cosine(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, errors.New("cosine of empty vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d != %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Similarity embeds both texts and returns their cosine similarity scaled by
// SimilarityScale. Any failure is reported as an *EmbeddingError.
func Similarity(ctx context.Context, embed EmbedFunc, a, b string) (float64, error) {
	va, err := embed(ctx, a)
	if err != nil {
		return 0, &EmbeddingError{Err: err}
	}

	vb, err := embed(ctx, b)
	if err != nil {
		return 0, &EmbeddingError{Err: err}
	}

	cos, err := Cosine(va, vb)
	if err != nil {
		return 0, &EmbeddingError{Err: err}
	}

	return cos * SimilarityScale, nil
}
