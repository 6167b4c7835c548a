// Package excel imports vocabulary lists from Excel or CSV files. Imports
// go through the capture service, so imported words get deterministic IDs,
// deduplicate against existing captures, and participate in sync like any
// other local edit.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabsync/internal/vocabulary"
)

// ImportConfig defines the import configuration.
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	WordColumn       string // Column with the word
	DefinitionColumn string // Column with the definition
	PhoneticColumn   string // Column with the phonetic transcription
	TagsColumn       string // Column with comma-separated tags
	SourceURLColumn  string // Column with the source URL
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:       "A",
		DefinitionColumn: "B",
		PhoneticColumn:   "C",
		TagsColumn:       "D",
		SourceURLColumn:  "E",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportWords imports words from an Excel or CSV file.
func ImportWords(ctx context.Context, svc *vocabulary.Service, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, svc, config)
	}
	return importFromExcel(ctx, svc, config)
}

func importFromExcel(ctx context.Context, svc *vocabulary.Service, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %v", config.SheetName, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		in := vocabulary.CaptureInput{
			Word:        cellValue(row, config.WordColumn),
			Phonetic:    cellValue(row, config.PhoneticColumn),
			SourceURL:   cellValue(row, config.SourceURLColumn),
			SourceTitle: filepath.Base(config.FilePath),
		}
		if def := cellValue(row, config.DefinitionColumn); def != "" {
			in.Definitions = []string{def}
		}
		if tags := cellValue(row, config.TagsColumn); tags != "" {
			in.Tags = splitTags(tags)
		}
		importRow(ctx, svc, in, rowNum, result)
	}
	return result, nil
}

func importFromCSV(ctx context.Context, svc *vocabulary.Service, config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		in := vocabulary.CaptureInput{
			Word:        cellValue(row, config.WordColumn),
			Phonetic:    cellValue(row, config.PhoneticColumn),
			SourceURL:   cellValue(row, config.SourceURLColumn),
			SourceTitle: filepath.Base(config.FilePath),
		}
		if def := cellValue(row, config.DefinitionColumn); def != "" {
			in.Definitions = []string{def}
		}
		if tags := cellValue(row, config.TagsColumn); tags != "" {
			in.Tags = splitTags(tags)
		}
		importRow(ctx, svc, in, rowNum, result)
	}
	return result, nil
}

func importRow(ctx context.Context, svc *vocabulary.Service, in vocabulary.CaptureInput, rowNum int, result *ImportResult) {
	result.TotalProcessed++
	if strings.TrimSpace(in.Word) == "" {
		result.Skipped++
		return
	}
	if _, err := svc.Capture(ctx, in); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}
	result.Imported++
}

// cellValue returns the value of a lettered column within a row slice.
func cellValue(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil || idx <= 0 || idx > len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx-1])
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
