// Package extract converts PDF resumes into the CSV tables consumed by the
// scoring stage.
package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spigell/mira/internal/resume"
	"go.uber.org/zap"
)

const (
	pdfExt = ".pdf"
	csvExt = ".csv"
)

// Config holds the input directories and output locations of the stage.
type Config struct {
	CandidatesDir string
	ExpertsDir    string
	// CandidatesOutput is the combined table of all candidate resumes.
	CandidatesOutput string
	// ExpertsOutputDir receives one <name>.csv table per expert resume.
	ExpertsOutputDir string
}

// Summary reports what a run produced.
type Summary struct {
	Candidates  int
	Experts     int
	ExpertFiles []string
}

type Extractor struct {
	cfg    Config
	text   TextExtractor
	logger *zap.Logger
}

func New(cfg Config, text TextExtractor, logger *zap.Logger) *Extractor {
	if text == nil {
		text = PDFText{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ExpertsOutputDir == "" {
		cfg.ExpertsOutputDir = cfg.ExpertsDir
	}

	return &Extractor{cfg: cfg, text: text, logger: logger}
}

// Run extracts candidates into one combined table and every expert into its
// own table. Existing outputs are overwritten. Any unreadable document aborts
// the run; no partial results are saved for the failing group.
func (e *Extractor) Run(ctx context.Context) (*Summary, error) {
	candidates, err := e.extractDir(ctx, e.cfg.CandidatesDir)
	if err != nil {
		return nil, fmt.Errorf("extract candidates: %w", err)
	}

	if err := resume.WriteTable(e.cfg.CandidatesOutput, candidates); err != nil {
		return nil, fmt.Errorf("write candidates table: %w", err)
	}

	e.logger.Info("candidates table written",
		zap.String("path", e.cfg.CandidatesOutput),
		zap.Int("count", len(candidates)),
	)

	experts, err := e.extractDir(ctx, e.cfg.ExpertsDir)
	if err != nil {
		return nil, fmt.Errorf("extract experts: %w", err)
	}

	summary := &Summary{Candidates: len(candidates), Experts: len(experts)}

	for _, expert := range experts {
		path := filepath.Join(e.cfg.ExpertsOutputDir, expert.Name+csvExt)
		if err := resume.WriteTable(path, []resume.Record{expert}); err != nil {
			return nil, fmt.Errorf("write expert table: %w", err)
		}
		summary.ExpertFiles = append(summary.ExpertFiles, path)

		e.logger.Debug("expert table written", zap.String("path", path))
	}

	e.logger.Info("expert tables written",
		zap.String("dir", e.cfg.ExpertsOutputDir),
		zap.Int("count", len(experts)),
	)

	return summary, nil
}

func (e *Extractor) extractDir(ctx context.Context, dir string) ([]resume.Record, error) {
	names, err := resume.ListFiles(dir, pdfExt)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	records := make([]resume.Record, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := e.text.ExtractText(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		if text == "" {
			e.logger.Warn("no text extracted", zap.String("file", name))
		}

		records = append(records, resume.Record{
			Name:    resume.NameFromFile(name, pdfExt),
			Content: text,
		})
	}

	return records, nil
}
