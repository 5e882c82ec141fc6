package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/mira/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text from candidate and expert PDF resumes into CSV tables",
	Run: func(_ *cobra.Command, _ []string) {
		runExtract()
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the extraction",
		zap.String("candidates", config.Paths.Candidates),
		zap.String("experts", config.Paths.Experts),
	)

	summary, err := extract.New(extract.Config{
		CandidatesDir:    config.Paths.Candidates,
		ExpertsDir:       config.Paths.Experts,
		CandidatesOutput: config.Paths.CandidatesTable,
	}, extract.PDFText{}, log).Run(ctx)
	if err != nil {
		log.Fatal("extraction failed", zap.Error(err))
	}

	color.Green("✓ %d candidate resumes saved to %s", summary.Candidates, config.Paths.CandidatesTable)
	color.Green("✓ %d expert resumes saved to %s", summary.Experts, config.Paths.Experts)
}
