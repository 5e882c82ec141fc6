package scoring

import (
	"context"
	_ "embed"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/mira/internal/ai"
	"github.com/spigell/mira/internal/logger"
)

// ScoreFunc asks a language model to rate an expert section against another
// section and returns the raw answer.
type ScoreFunc func(ctx context.Context, section, expertSection string) (string, error)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// BuildPrompt renders the rating prompt. The answer format ("8/10 ...") is a
// request to the model, not something the caller can enforce.
func BuildPrompt(section, expertSection, jobDescription string) string {
	return strings.NewReplacer(
		"{{CANDIDATE_SECTION}}", section,
		"{{EXPERT_SECTION}}", expertSection,
		"{{JOB_DESCRIPTION}}", jobDescription,
	).Replace(strings.TrimSpace(promptTemplate))
}

// NewScoreFunc binds a Completer into a ScoreFunc. The job description slot of
// the prompt is left empty; callers rate against the job description by
// passing it as the section.
func NewScoreFunc(completer ai.Completer, log *zap.Logger, maxLogLength int) ScoreFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return func(ctx context.Context, section, expertSection string) (string, error) {
		prompt := BuildPrompt(section, expertSection, "")

		log.Debug("llm score request",
			zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
			logger.PreviewField("prompt_preview", prompt, maxLogLength),
		)

		raw, err := completer.Complete(ctx, prompt)
		if err != nil {
			return "", err
		}

		log.Debug("llm score response",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			logger.PreviewField("response_preview", raw, maxLogLength),
		)

		return raw, nil
	}
}

// EmbedWith adapts an Embedder to an EmbedFunc.
func EmbedWith(embedder ai.Embedder) EmbedFunc {
	return embedder.Embed
}
