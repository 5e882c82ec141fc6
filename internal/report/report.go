// Package report writes and reads the expert relevancy score table.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/mira/internal/scoring"
)

// Column headers of the report table, in output order.
const (
	ColumnExpertName           = "Expert Name"
	ColumnSimilarityCandidate  = "Similarity Score with Candidate Skills"
	ColumnSimilarityJD         = "Similarity Score with Job Description"
	ColumnCandidateScore       = "Candidate Score"
	ColumnJDScore              = "JD Score"
	ColumnFinalScore           = "Final Score"
	ColumnExplanationCandidate = "Explanation (Candidate)"
	ColumnExplanationJD        = "Explanation (JD)"
)

var columns = []string{
	ColumnExpertName,
	ColumnSimilarityCandidate,
	ColumnSimilarityJD,
	ColumnCandidateScore,
	ColumnJDScore,
	ColumnFinalScore,
	ColumnExplanationCandidate,
	ColumnExplanationJD,
}

// Row is the score of one expert.
type Row struct {
	ExpertName string
	scoring.Result
}

// NewRow attaches an expert name to a scoring result.
func NewRow(expertName string, result *scoring.Result) Row {
	row := Row{ExpertName: expertName}
	if result != nil {
		row.Result = *result
	}
	return row
}

// SortByFinalScore orders rows by descending final score. Ties keep their
// processing order.
func SortByFinalScore(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].FinalScore > rows[j].FinalScore
	})
}

// Write replaces the report at path with rows.
func Write(path string, rows []Row) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := encode(file, rows); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return file.Close()
}

func encode(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.ExpertName,
			formatFloat(row.SimilarityCandidate),
			formatFloat(row.SimilarityJD),
			formatFloat(row.CandidateScore),
			formatFloat(row.JDScore),
			formatFloat(row.FinalScore),
			row.ExplanationCandidate,
			row.ExplanationJD,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Read loads a report written by Write.
func Read(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	return rows, nil
}

func decode(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("report is empty")
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[column] = i
	}
	for _, column := range columns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := Row{
			ExpertName: record[index[ColumnExpertName]],
		}
		row.ExplanationCandidate = record[index[ColumnExplanationCandidate]]
		row.ExplanationJD = record[index[ColumnExplanationJD]]

		floats := []struct {
			column string
			dst    *float64
		}{
			{ColumnSimilarityCandidate, &row.SimilarityCandidate},
			{ColumnSimilarityJD, &row.SimilarityJD},
			{ColumnCandidateScore, &row.CandidateScore},
			{ColumnJDScore, &row.JDScore},
			{ColumnFinalScore, &row.FinalScore},
		}
		for _, f := range floats {
			v, err := strconv.ParseFloat(record[index[f.column]], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, f.column, err)
			}
			*f.dst = v
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
