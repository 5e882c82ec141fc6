package scoring

import (
	"strconv"
	"strings"
)

const (
	// ParseErrorExplanation is reported when a model answer has no leading score.
	ParseErrorExplanation = "Error occurred during parsing."
	// ScoringErrorExplanation is reported when the model could not be reached.
	ScoringErrorExplanation = "Error occurred during scoring."
)

// ParseLLMScore reads a "<score>/<explanation>" answer. The text is split on
// the first slash; the left part must be a number and the trimmed right part
// is the explanation. Anything else degrades to a zero score with
// ParseErrorExplanation instead of failing.
func ParseLLMScore(text string) (float64, string) {
	left, right, found := strings.Cut(text, "/")
	if !found {
		return 0, ParseErrorExplanation
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(left), 64)
	if err != nil {
		return 0, ParseErrorExplanation
	}

	return score, strings.TrimSpace(right)
}
