package excel

import (
	"fmt"
	"io"

	"github.com/example/moodtracker/pkg/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding mood history
const SheetName = "Sheet1"

var header = []interface{}{"Day", "Mood", "Value", "Updated"}

// WriteHistory writes records as an .xlsx workbook to w
func WriteHistory(w io.Writer, records []models.MoodRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Day, r.Mood.String(), int(r.Mood)}
		if !r.UpdatedAt.IsZero() {
			row = append(row, r.UpdatedAt.UTC().Format("2006-01-02 15:04:05"))
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
