package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/mira/internal/ai/openai"
	"github.com/spigell/mira/internal/pipeline"
	"github.com/spigell/mira/internal/report"
	"github.com/spigell/mira/internal/scoring"
)

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printSummary(&buf, &pipeline.Summary{
		Rows: []report.Row{
			{ExpertName: "alice", Result: scoring.Result{SimilarityCandidate: 7.123, SimilarityJD: 3, FinalScore: 8.5}},
			{ExpertName: "a-very-long-expert-file-name-that-overflows", Result: scoring.Result{FinalScore: 1}},
		},
		Skipped:    []string{"broken.csv"},
		ReportPath: "resume/expert_relevancy_scores.csv",
	})

	out := buf.String()
	assert.Contains(t, out, "alice                          7.12       3.00       8.50")
	assert.Contains(t, out, "a-very-long-expert-file-nam...")
	assert.Contains(t, out, "skipped broken.csv")
	assert.Contains(t, out, "saved to resume/expert_relevancy_scores.csv")
}

func TestPrintRow(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printRow(&buf, report.Row{
		ExpertName: "alice",
		Result: scoring.Result{
			FinalScore:           6.25,
			ExplanationCandidate: "Good match",
			ExplanationJD:        scoring.ScoringErrorExplanation,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Final Score: 6.25")
	assert.Contains(t, out, "Explanation (Candidate): Good match")
	assert.Contains(t, out, "Explanation (JD): Error occurred during scoring.")
}

func TestReviewItems(t *testing.T) {
	items := reviewItems([]report.Row{
		{ExpertName: "alice", Result: scoring.Result{FinalScore: 6.254}},
		{ExpertName: "bob"},
	})

	assert.Equal(t, []string{"alice (final 6.25)", "bob (final 0.00)"}, items)
}

func TestNewBackendsSharesClientForSameProvider(t *testing.T) {
	models, err := newBackends(context.Background(), AIConfig{
		Provider:  "ollama",
		Embedding: EmbeddingConfig{Provider: "ollama"},
	}, zap.NewNop())
	require.NoError(t, err)

	client, ok := models.completer.(*openai.Client)
	require.True(t, ok)
	assert.Same(t, client, models.embedder)
	assert.Equal(t, openai.DefaultOllamaModel, client.Model())
	assert.Equal(t, openai.DefaultOllamaEmbeddingModel, client.EmbeddingModel())
}

func TestNewBackendsRequiresHostedKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := newBackends(context.Background(), AIConfig{Provider: "openai"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api key is not configured (set OPENAI_API_KEY)")

	_, err = newBackends(context.Background(), AIConfig{Provider: "ollama", Embedding: EmbeddingConfig{Provider: "gemini"}}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api key is not configured (set GEMINI_API_KEY)")
}

func TestNewBackendsOpenAIFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	models, err := newBackends(context.Background(), AIConfig{
		Provider:  "openai",
		Embedding: EmbeddingConfig{Provider: "openai"},
	}, zap.NewNop())
	require.NoError(t, err)

	client, ok := models.completer.(*openai.Client)
	require.True(t, ok)
	assert.Equal(t, openai.DefaultModel, client.Model())
}

func TestNewBackendsUnknownProvider(t *testing.T) {
	_, err := newBackends(context.Background(), AIConfig{Provider: "anthropic"}, zap.NewNop())
	assert.EqualError(t, err, "unsupported ai provider: anthropic")
}

func TestExpertColumnCutsRunes(t *testing.T) {
	name := strings.Repeat("Эксперт-", 6)

	got := expertColumn(name)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 30, utf8.RuneCountInString(got))
	assert.Equal(t, string([]rune(name)[:27])+"...", got)
	assert.Equal(t, "Ünal Şahin", expertColumn("Ünal Şahin"))
}
