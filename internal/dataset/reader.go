// Package dataset turns uploaded customer files into records and writes
// predicted output back to disk.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
	ErrEmptyFile         = errors.New("file has no header row")
)

// Table is a parsed upload: ordered columns plus one record per data row.
type Table struct {
	Columns []string
	Records []models.Record
}

// Read parses a CSV or XLSX upload. The format is chosen by the file name's
// extension.
func Read(name string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", "":
		return readCSV(r)
	case ".xlsx":
		return readExcel(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return fromRows(rows)
}

func readExcel(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = h
	}

	t := &Table{Columns: columns}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := models.NewRecord()
		for i, col := range columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			rec.Set(col, Coerce(cell))
		}
		t.Records = append(t.Records, *rec)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Coerce converts a cell to int64 or float64 when it parses as one, nil when
// empty, and leaves everything else as text.
func Coerce(cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		switch {
		case math.IsNaN(f):
			return nil
		case math.IsInf(f, 0):
			return s
		}
		return f
	}
	return s
}

// WriteCSV stores records under the given columns with standard CSV quoting.
func WriteCSV(path string, columns []string, records []models.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, c := range columns {
			row[i] = models.FormatValue(rec.Value(c))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
