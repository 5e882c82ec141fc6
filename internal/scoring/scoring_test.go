package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// letterEmbed maps text onto letter frequencies, so equal strings get equal vectors.
func letterEmbed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

type scoreCall struct {
	section string
	expert  string
}

type stubScorer struct {
	answers []string
	errs    []error
	calls   []scoreCall
}

func (s *stubScorer) score(_ context.Context, section, expert string) (string, error) {
	i := len(s.calls)
	s.calls = append(s.calls, scoreCall{section: section, expert: expert})

	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(s.answers) {
		return s.answers[i], nil
	}
	return "8/Good match", nil
}

type stubCompleter struct {
	prompt string
	answer string
	err    error
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

func TestParseLLMScore(t *testing.T) {
	cases := []struct {
		name        string
		in          string
		score       float64
		explanation string
	}{
		{name: "plain", in: "8/Good match", score: 8, explanation: "Good match"},
		{name: "spaces and decimals", in: " 7.5 / solid fit ", score: 7.5, explanation: "solid fit"},
		{name: "first slash only", in: "8/10 strong robotics overlap", score: 8, explanation: "10 strong robotics overlap"},
		{name: "empty explanation", in: "9/", score: 9, explanation: ""},
		{name: "no slash", in: "The expert is a great match", score: 0, explanation: ParseErrorExplanation},
		{name: "words before slash", in: "Score: 8/10", score: 0, explanation: ParseErrorExplanation},
		{name: "empty", in: "", score: 0, explanation: ParseErrorExplanation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, explanation := ParseLLMScore(tc.in)
			assert.Equal(t, tc.score, score)
			assert.Equal(t, tc.explanation, explanation)
		})
	}
}

func TestCosine(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-2, 0.5, 4}

	self, err := Cosine(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1, self, 1e-12)

	ab, err := Cosine(a, b)
	require.NoError(t, err)
	ba, err := Cosine(b, a)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-12)

	opposite, err := Cosine(a, []float64{-1, -2, -3})
	require.NoError(t, err)
	assert.InDelta(t, -1, opposite, 1e-12)

	orthogonal, err := Cosine([]float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.Zero(t, orthogonal)

	zero, err := Cosine([]float64{0, 0, 0}, a)
	require.NoError(t, err)
	assert.Zero(t, zero)

	_, err = Cosine(a, []float64{1, 2})
	assert.Error(t, err)

	_, err = Cosine(nil, a)
	assert.Error(t, err)
}

func TestSimilarityScalesCosine(t *testing.T) {
	sim, err := Similarity(context.Background(), letterEmbed, "Python, ML", "Python, ML")
	require.NoError(t, err)
	assert.InDelta(t, 10, sim, 1e-9)
}

func TestSimilarityWrapsEmbeddingFailure(t *testing.T) {
	boom := errors.New("model not loaded")
	embed := func(context.Context, string) ([]float64, error) { return nil, boom }

	_, err := Similarity(context.Background(), embed, "a", "b")
	require.Error(t, err)

	var embErr *EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.ErrorIs(t, err, boom)
}

func TestCalculateFinalScoreIsMean(t *testing.T) {
	in := Input{
		CandidateSection: "Python, SQL, ML",
		ExpertSection:    "Python, ML, Robotics",
		JobDescription:   "Expert needed in AI and Robotics",
	}
	stub := &stubScorer{answers: []string{"8/Good match", "6/Partial"}}

	res, err := CalculateRelevance(context.Background(), in, DefaultWeights, letterEmbed, stub.score)
	require.NoError(t, err)

	simC, err := Similarity(context.Background(), letterEmbed, in.CandidateSection, in.ExpertSection)
	require.NoError(t, err)
	simJD, err := Similarity(context.Background(), letterEmbed, in.JobDescription, in.ExpertSection)
	require.NoError(t, err)

	assert.InDelta(t, simC, res.SimilarityCandidate, 1e-12)
	assert.InDelta(t, simJD, res.SimilarityJD, 1e-12)
	assert.InDelta(t, 0.5*simC+0.5*8, res.CandidateScore, 1e-12)
	assert.InDelta(t, 0.5*simJD+0.5*6, res.JDScore, 1e-12)
	assert.InDelta(t, (res.CandidateScore+res.JDScore)/2, res.FinalScore, 1e-12)
	assert.Equal(t, "Good match", res.ExplanationCandidate)
	assert.Equal(t, "Partial", res.ExplanationJD)

	require.Len(t, stub.calls, 2)
	assert.Equal(t, scoreCall{section: in.CandidateSection, expert: in.ExpertSection}, stub.calls[0])
	assert.Equal(t, scoreCall{section: in.JobDescription, expert: in.ExpertSection}, stub.calls[1])
}

func TestCalculateUsesWeights(t *testing.T) {
	in := Input{CandidateSection: "go", ExpertSection: "go", JobDescription: "go"}
	stub := &stubScorer{answers: []string{"4/a", "2/b"}}
	weights := Weights{Similarity: 1, Candidates: 2, JD: 3}

	res, err := CalculateRelevance(context.Background(), in, weights, letterEmbed, stub.score)
	require.NoError(t, err)

	assert.InDelta(t, 10+8, res.CandidateScore, 1e-9)
	assert.InDelta(t, 10+6, res.JDScore, 1e-9)
	assert.InDelta(t, 17, res.FinalScore, 1e-9)
}

func TestCalculateLLMOutageKeepsSimilarity(t *testing.T) {
	in := Input{
		CandidateSection: "Python, SQL",
		ExpertSection:    "Python, Robotics",
		JobDescription:   "Robotics lead",
	}

	cases := []struct {
		name string
		errs []error
	}{
		{name: "both calls fail", errs: []error{errors.New("connection refused"), errors.New("connection refused")}},
		{name: "second call fails", errs: []error{nil, errors.New("timeout")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			stub := &stubScorer{errs: tc.errs}

			res, err := NewScorer(DefaultWeights, letterEmbed, stub.score, zap.New(core)).Calculate(context.Background(), in)
			require.NoError(t, err)

			assert.InDelta(t, DefaultWeights.Similarity*(res.SimilarityCandidate+res.SimilarityJD)/2, res.FinalScore, 1e-12)
			assert.Equal(t, ScoringErrorExplanation, res.ExplanationCandidate)
			assert.Equal(t, ScoringErrorExplanation, res.ExplanationJD)
			assert.Equal(t, 1, logs.FilterMessage("llm scoring failed").Len())
		})
	}
}

func TestCalculateParseFailureIsNotOutage(t *testing.T) {
	in := Input{CandidateSection: "a", ExpertSection: "a", JobDescription: "a"}
	stub := &stubScorer{answers: []string{"great match", "7/fine"}}

	res, err := CalculateRelevance(context.Background(), in, DefaultWeights, letterEmbed, stub.score)
	require.NoError(t, err)

	assert.Equal(t, ParseErrorExplanation, res.ExplanationCandidate)
	assert.Equal(t, "fine", res.ExplanationJD)
	assert.InDelta(t, 5, res.CandidateScore, 1e-9)
	assert.InDelta(t, 8.5, res.JDScore, 1e-9)
}

func TestCalculateAbortsOnEmbeddingError(t *testing.T) {
	embed := func(context.Context, string) ([]float64, error) { return nil, errors.New("no model") }
	stub := &stubScorer{}

	_, err := CalculateRelevance(context.Background(), Input{}, DefaultWeights, embed, stub.score)

	var embErr *EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Empty(t, stub.calls)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Python, SQL", "Robotics, ML", "")

	assert.Contains(t, prompt, "Average Candidate Skills: Python, SQL")
	assert.Contains(t, prompt, "Expert Skills: Robotics, ML")
	assert.Contains(t, prompt, "8/10")
	assert.NotContains(t, prompt, "{{")
}

func TestNewScoreFunc(t *testing.T) {
	completer := &stubCompleter{answer: "7/Relevant"}
	score := NewScoreFunc(completer, zap.NewNop(), 0)

	raw, err := score(context.Background(), "Job: robotics", "SolidWorks")
	require.NoError(t, err)
	assert.Equal(t, "7/Relevant", raw)
	assert.Contains(t, completer.prompt, "Average Candidate Skills: Job: robotics")
	assert.Contains(t, completer.prompt, "Expert Skills: SolidWorks")

	completer.err = errors.New("unavailable")
	_, err = score(context.Background(), "a", "b")
	assert.EqualError(t, err, "unavailable")
}

func TestNewScoreFuncLogsTruncatedPrompt(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	completer := &stubCompleter{answer: "5/ok"}
	score := NewScoreFunc(completer, zap.New(core), 10)

	section := strings.Repeat("x", 100)
	_, err := score(context.Background(), section, "y")
	require.NoError(t, err)

	entries := logs.FilterMessage("llm score request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "On a scale...", fields["prompt_preview"])
	assert.Equal(t, int64(len([]rune(BuildPrompt(section, "y", "")))), fields["prompt_length"])
}
