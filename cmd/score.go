package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/mira/internal/jobdesc"
	"github.com/spigell/mira/internal/logger"
	"github.com/spigell/mira/internal/pipeline"
	"github.com/spigell/mira/internal/report"
	"github.com/spigell/mira/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every expert against the candidate pool and the job description",
	Run: func(_ *cobra.Command, _ []string) {
		runScore()
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("provider", "p", "", "language model provider: ollama, openai or gemini")
	scoreCmd.Flags().BoolP("sort", "s", false, "sort the report by final score, best first")
	scoreCmd.Flags().String("job-description-file", "", "read the job description from a text or HTML file")

	viper.BindPFlag("ai.provider", scoreCmd.Flags().Lookup("provider"))
	viper.BindPFlag("report.sort-by-final-score", scoreCmd.Flags().Lookup("sort"))
	viper.BindPFlag("job-description.file", scoreCmd.Flags().Lookup("job-description-file"))
}

func runScore() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	log := logger.WithRun(newLogger(), runID)

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the scoring", zap.String("version", version))

	jd, err := jobdesc.Load(ctx, config.JobDescription)
	if err != nil {
		log.Fatal("loading the job description", zap.Error(err))
	}
	log.Debug("job description loaded", logger.PreviewField("text", jd, config.AI.MaxLogLength))

	models, err := newBackends(ctx, config.AI, log)
	if err != nil {
		log.Fatal("building model backends", zap.Error(err))
	}

	deps := pipeline.Deps{
		Embed:  scoring.EmbedWith(models.embedder),
		Score:  scoring.NewScoreFunc(models.completer, log, config.AI.MaxLogLength),
		RunID:  runID,
		Logger: log,
	}
	if config.Report.PostgresDSN != "" {
		deps.Sink = report.NewPostgresSink(config.Report.PostgresDSN, log)
	}

	summary, err := pipeline.Run(ctx, pipeline.Config{
		CandidatesTable:  config.Paths.CandidatesTable,
		ExpertsDir:       config.Paths.Experts,
		ReportPath:       config.Paths.Report,
		JobDescription:   jd,
		Weights:          config.Weights,
		SortByFinalScore: config.Report.SortByFinalScore,
	}, deps)
	if err != nil {
		log.Fatal("scoring failed", zap.Error(err))
	}

	printSummary(os.Stdout, summary)
}

func printSummary(w io.Writer, summary *pipeline.Summary) {
	bold := color.New(color.Bold)

	fmt.Fprintln(w, bold.Sprint("Relevancy scores"))
	fmt.Fprintf(w, "%-30s %-10s %-10s %-10s\n", "Expert", "Sim (C)", "Sim (JD)", "Final")
	fmt.Fprintln(w, strings.Repeat("-", 63))

	for _, row := range summary.Rows {
		fmt.Fprintf(w, "%-30s %-10.2f %-10.2f %s\n",
			expertColumn(row.ExpertName), row.SimilarityCandidate, row.SimilarityJD, scoreString(row.FinalScore))
	}

	for _, file := range summary.Skipped {
		fmt.Fprintf(w, "%s skipped %s\n", color.YellowString("⚠"), file)
	}

	fmt.Fprintf(w, "%s Relevancy scores for experts have been saved to %s\n", color.GreenString("✓"), summary.ReportPath)
}

// expertColumn fits a name into the 30 rune wide expert column.
func expertColumn(name string) string {
	if utf8.RuneCountInString(name) <= 30 {
		return name
	}
	return logger.Preview(name, 27)
}

// scoreString colors a final score. With default weights a perfect match
// lands at 10.
func scoreString(score float64) string {
	switch {
	case score >= 7:
		return color.GreenString("%.2f", score)
	case score >= 4:
		return color.YellowString("%.2f", score)
	default:
		return color.RedString("%.2f", score)
	}
}
