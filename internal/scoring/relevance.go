package scoring

import (
	"context"

	"go.uber.org/zap"
)

// Weights blend the similarity and language model components.
type Weights struct {
	Similarity float64 `mapstructure:"similarity" validate:"gte=0"`
	Candidates float64 `mapstructure:"candidates" validate:"gte=0"`
	JD         float64 `mapstructure:"jd" validate:"gte=0"`
}

// DefaultWeights weighs every component equally.
var DefaultWeights = Weights{Similarity: 0.5, Candidates: 0.5, JD: 0.5}

// Input is one expert scored against the candidate pool and the job description.
type Input struct {
	CandidateSection string
	ExpertSection    string
	JobDescription   string
}

// Result holds every component of a relevance score.
type Result struct {
	SimilarityCandidate  float64
	SimilarityJD         float64
	CandidateScore       float64
	JDScore              float64
	FinalScore           float64
	ExplanationCandidate string
	ExplanationJD        string
}

// Scorer computes relevance results for experts.
type Scorer struct {
	weights Weights
	embed   EmbedFunc
	score   ScoreFunc
	logger  *zap.Logger
}

func NewScorer(weights Weights, embed EmbedFunc, score ScoreFunc, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		weights: weights,
		embed:   embed,
		score:   score,
		logger:  logger,
	}
}

// Calculate scores one expert. The similarity term is multiplied by its
// weight on the ×10 scale while the model score stays on its raw scale.
//
// A failure of either model call zeroes both model scores and the result is
// still returned. Embedding failures are returned as *EmbeddingError.
func (s *Scorer) Calculate(ctx context.Context, in Input) (*Result, error) {
	simC, err := Similarity(ctx, s.embed, in.CandidateSection, in.ExpertSection)
	if err != nil {
		return nil, err
	}

	simJD, err := Similarity(ctx, s.embed, in.JobDescription, in.ExpertSection)
	if err != nil {
		return nil, err
	}

	scoreC, explC, scoreJD, explJD, err := s.rate(ctx, in)
	if err != nil {
		s.logger.Warn("llm scoring failed", zap.Error(err))
		scoreC, explC = 0, ScoringErrorExplanation
		scoreJD, explJD = 0, ScoringErrorExplanation
	}

	candidateScore := s.weights.Similarity*simC + s.weights.Candidates*scoreC
	jdScore := s.weights.Similarity*simJD + s.weights.JD*scoreJD

	return &Result{
		SimilarityCandidate:  simC,
		SimilarityJD:         simJD,
		CandidateScore:       candidateScore,
		JDScore:              jdScore,
		FinalScore:           (candidateScore + jdScore) / 2,
		ExplanationCandidate: explC,
		ExplanationJD:        explJD,
	}, nil
}

func (s *Scorer) rate(ctx context.Context, in Input) (float64, string, float64, string, error) {
	rawC, err := s.score(ctx, in.CandidateSection, in.ExpertSection)
	if err != nil {
		return 0, "", 0, "", err
	}

	rawJD, err := s.score(ctx, in.JobDescription, in.ExpertSection)
	if err != nil {
		return 0, "", 0, "", err
	}

	scoreC, explC := ParseLLMScore(rawC)
	scoreJD, explJD := ParseLLMScore(rawJD)

	return scoreC, explC, scoreJD, explJD, nil
}

// CalculateRelevance scores a single input without keeping a Scorer around.
func CalculateRelevance(ctx context.Context, in Input, weights Weights, embed EmbedFunc, score ScoreFunc) (*Result, error) {
	return NewScorer(weights, embed, score, nil).Calculate(ctx, in)
}
