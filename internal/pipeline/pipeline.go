// Package pipeline runs the scoring stage: it reads the candidate and expert
// tables, scores every expert and writes the report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/mira/internal/logger"
	"github.com/spigell/mira/internal/report"
	"github.com/spigell/mira/internal/resume"
	"github.com/spigell/mira/internal/scoring"
)

const expertExt = ".csv"

// Config describes where the stage reads and writes.
type Config struct {
	CandidatesTable  string
	ExpertsDir       string
	ReportPath       string
	JobDescription   string
	Weights          scoring.Weights
	SortByFinalScore bool
}

// Sink stores a finished report somewhere besides the CSV file.
type Sink interface {
	Save(ctx context.Context, runID string, rows []report.Row) error
}

// Deps are the capabilities the stage is built from.
type Deps struct {
	Embed  scoring.EmbedFunc
	Score  scoring.ScoreFunc
	Sink   Sink
	RunID  string
	Logger *zap.Logger
}

// Summary is the outcome of a run.
type Summary struct {
	RunID         string
	CandidatePool string
	Rows          []report.Row
	Skipped       []string
	ReportPath    string
}

// Run scores every expert table in cfg.ExpertsDir in file name order. A
// failure to read one expert table, or an expert without text, is logged and
// the file is skipped; an embedding failure aborts the run before the report
// is written.
func Run(ctx context.Context, cfg Config, deps Deps) (*Summary, error) {
	if deps.Embed == nil || deps.Score == nil {
		return nil, errors.New("pipeline requires an embedder and a scorer")
	}

	log := logger.WithRun(deps.Logger, deps.RunID)

	candidates, err := resume.ReadTable(cfg.CandidatesTable)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	pool := resume.Pool(candidates)
	if strings.TrimSpace(pool) == "" {
		return nil, fmt.Errorf("load candidates from %s: %w", cfg.CandidatesTable, resume.ErrEmptyContent)
	}
	log.Info("candidate pool built",
		zap.Int("candidates", len(candidates)),
		zap.String("pool", pool),
	)

	files, err := resume.ListFiles(cfg.ExpertsDir, expertExt)
	if err != nil {
		return nil, fmt.Errorf("list experts: %w", err)
	}

	scorer := scoring.NewScorer(cfg.Weights, deps.Embed, deps.Score, log)
	summary := &Summary{
		RunID:         deps.RunID,
		CandidatePool: pool,
		ReportPath:    cfg.ReportPath,
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := resume.NameFromFile(file, expertExt)
		expertLog := logger.WithExpert(log, name)

		expert, err := resume.First(filepath.Join(cfg.ExpertsDir, file))
		if err == nil && strings.TrimSpace(expert.Content) == "" {
			err = resume.ErrEmptyContent
		}
		if err != nil {
			expertLog.Warn("skipping expert", zap.String("file", file), zap.Error(err))
			summary.Skipped = append(summary.Skipped, file)
			continue
		}

		result, err := scorer.Calculate(ctx, scoring.Input{
			CandidateSection: pool,
			ExpertSection:    expert.Content,
			JobDescription:   cfg.JobDescription,
		})
		if err != nil {
			return nil, fmt.Errorf("score expert %s: %w", name, err)
		}

		expertLog.Info("expert scored",
			zap.Float64("similarity_candidate", result.SimilarityCandidate),
			zap.Float64("similarity_jd", result.SimilarityJD),
			zap.Float64("final_score", result.FinalScore),
		)

		summary.Rows = append(summary.Rows, report.NewRow(name, result))
	}

	if cfg.SortByFinalScore {
		report.SortByFinalScore(summary.Rows)
	}

	if err := report.Write(cfg.ReportPath, summary.Rows); err != nil {
		return nil, err
	}

	log.Info("relevancy scores saved",
		zap.String("path", cfg.ReportPath),
		zap.Int("experts", len(summary.Rows)),
		zap.Int("skipped", len(summary.Skipped)),
	)

	if deps.Sink != nil {
		if err := deps.Sink.Save(ctx, deps.RunID, summary.Rows); err != nil {
			log.Warn("report sink failed", zap.Error(err))
		}
	}

	return summary, nil
}
