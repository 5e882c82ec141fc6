// Package resume holds the resume record exchanged between the extract and
// score stages, its CSV representation and the candidate pool derived from it.
package resume

import (
	"os"
	"sort"
	"strings"
)

const (
	// ColumnName is the CSV header of the resume owner column.
	ColumnName = "Name"
	// ColumnContent is the CSV header of the extracted text column.
	ColumnContent = "Resume Content"

	// SkillDelimiter separates skills inside a resume content block.
	SkillDelimiter = ", "
)

// Record is a single resume as produced by the extractor.
type Record struct {
	Name    string `mapstructure:"Name"`
	Content string `mapstructure:"Resume Content"`
}

// NameFromFile derives a record name from a source file name by dropping the
// given extension.
func NameFromFile(fileName, ext string) string {
	return strings.TrimSuffix(fileName, ext)
}

// Pool aggregates the skills of all records into one string: every content is
// split on SkillDelimiter, duplicates are dropped keeping first-seen order,
// and the result is joined back with the same delimiter. Records without
// content do not contribute.
func Pool(records []Record) string {
	seen := make(map[string]struct{})
	skills := make([]string, 0)

	for _, record := range records {
		if record.Content == "" {
			continue
		}
		for _, skill := range strings.Split(record.Content, SkillDelimiter) {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}

	return strings.Join(skills, SkillDelimiter)
}

// ListFiles returns the names of regular files in dir ending with ext, sorted
// by name. The suffix match is case-sensitive.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}
