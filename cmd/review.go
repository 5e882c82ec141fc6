package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/mira/internal/report"
)

const (
	PromptBack = "back"
	PromptExit = "exit"
)

var errExit = errors.New("exit requested")

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse a written relevancy report",
	Run: func(_ *cobra.Command, _ []string) {
		runReview()
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringP("report", "r", "", "report to open (default is paths.report)")
	viper.BindPFlag("paths.report", reviewCmd.Flags().Lookup("report"))
}

func runReview() {
	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	rows, err := report.Read(config.Paths.Report)
	if err != nil {
		log.Fatal("reading the report", zap.Error(err))
	}

	if len(rows) == 0 {
		log.Info("exiting", zap.String("reason", "report has no experts"))
		return
	}

	for {
		expertPrompt := promptui.Select{
			Label: "Choose an expert and press ENTER",
			Items: append(reviewItems(rows), PromptExit),
			Size:  10,
		}

		index, selected, err := expertPrompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if selected == PromptExit {
			return
		}

		if err := showRow(os.Stdout, rows[index]); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

func reviewItems(rows []report.Row) []string {
	items := make([]string, 0, len(rows)+1)
	for _, row := range rows {
		items = append(items, fmt.Sprintf("%s (final %.2f)", row.ExpertName, row.FinalScore))
	}
	return items
}

func showRow(w io.Writer, row report.Row) error {
	printRow(w, row)

	next := promptui.Select{
		Label: "Next",
		Items: []string{PromptBack, PromptExit},
	}

	_, action, err := next.Run()
	if err != nil {
		return err
	}
	if action == PromptExit {
		return errExit
	}
	return nil
}

func printRow(w io.Writer, row report.Row) {
	bold := color.New(color.Bold, color.Underline)
	label := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(w, bold.Sprint(row.ExpertName))
	fmt.Fprintf(w, "%s %.2f\n", label(report.ColumnSimilarityCandidate+":"), row.SimilarityCandidate)
	fmt.Fprintf(w, "%s %.2f\n", label(report.ColumnSimilarityJD+":"), row.SimilarityJD)
	fmt.Fprintf(w, "%s %.2f\n", label(report.ColumnCandidateScore+":"), row.CandidateScore)
	fmt.Fprintf(w, "%s %.2f\n", label(report.ColumnJDScore+":"), row.JDScore)
	fmt.Fprintf(w, "%s %s\n", label(report.ColumnFinalScore+":"), scoreString(row.FinalScore))
	fmt.Fprintf(w, "%s %s\n", label(report.ColumnExplanationCandidate+":"), row.ExplanationCandidate)
	fmt.Fprintf(w, "%s %s\n", label(report.ColumnExplanationJD+":"), row.ExplanationJD)
}
