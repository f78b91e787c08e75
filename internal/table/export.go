package table

import (
	"fmt"
	"io"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Customers"

// ExportCSV writes rows under headers. Only values containing a comma are
// quoted; lines are separated by "\n" without a trailing newline. The header
// line is written even when rows is empty.
func ExportCSV(w io.Writer, headers []string, rows []models.Record) error {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = csvField(models.FormatValue(row.Value(h)))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func csvField(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Columns returns every key of the first row, "id" included. Exports take
// their header from the unfiltered rows so an empty search still has one.
func Columns(rows []models.Record) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// ExportXLSX writes the same grid as ExportCSV to a workbook, keeping numbers
// numeric.
func ExportXLSX(w io.Writer, headers []string, rows []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, h := range headers {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(exportSheet, cell, row.Value(h)); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}
