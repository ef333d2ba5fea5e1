package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/moodtracker/pkg/models"
	"github.com/xuri/excelize/v2"
)

// MoodSetter records a mood for a day
type MoodSetter interface {
	SetMood(ctx context.Context, day string, mood models.Mood) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	DayColumn  string // Column with the YYYY-MM-DD day
	MoodColumn string // Column with the mood name or 0/1
	SheetName  string // Name of the sheet to import
	StartRow   int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the import configuration matching WriteHistory output
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:   path,
		DayColumn:  "A",
		MoodColumn: "B",
		SheetName:  SheetName,
		StartRow:   2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportHistory reads day/mood rows from an Excel or CSV file and records
// each one with setter. Existing days are overwritten.
func ImportHistory(ctx context.Context, config ImportConfig, setter MoodSetter) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}

		day := cell(row, config.DayColumn)
		value := cell(row, config.MoodColumn)
		if day == "" && value == "" {
			continue
		}
		result.TotalProcessed++

		mood, err := models.ParseMoodName(value)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if err := setter.SetMood(ctx, day, mood); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, column string) string {
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
