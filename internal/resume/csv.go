package resume

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrMissingColumn is returned when a table lacks the content column.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyTable is returned by First when a table has no data rows.
	ErrEmptyTable = errors.New("table has no rows")
	// ErrEmptyContent marks a resume without any extracted text, typically a
	// scanned document.
	ErrEmptyContent = errors.New("resume has no text content")
)

const utf8BOM = "\ufeff"

// WriteTable writes records to path as a Name/Resume Content CSV, replacing
// any existing file.
func WriteTable(path string, records []Record) error {
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

	if err := writeRecords(file, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return file.Close()
}

func writeRecords(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{ColumnName, ColumnContent}); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write([]string{record.Name, record.Content}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadTable loads every row of a resume CSV. The Resume Content column is
// required; Name is optional.
func ReadTable(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := readRecords(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return records, nil
}

func readRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %q: no header", ErrMissingColumn, ColumnContent)
	}
	if err != nil {
		return nil, err
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	if !slices.Contains(header, ColumnContent) {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, ColumnContent)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		fields := make(map[string]any, len(header))
		for i, column := range header {
			fields[column] = row[i]
		}

		var record Record
		if err := mapstructure.Decode(fields, &record); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// First returns the first row of a resume CSV, which holds an expert's full
// text block.
func First(path string) (Record, error) {
	records, err := ReadTable(path)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("read %s: %w", path, ErrEmptyTable)
	}
	return records[0], nil
}
