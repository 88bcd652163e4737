// Package gradebook merges exported assignment scores into the roster-shaped LMS gradebook.
package gradebook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
)

// DefaultPlaceholder is the text the LMS puts in ungraded score cells.
const DefaultPlaceholder = "Needs Grading"

// ErrStudentNotFound indicates an exported student has no gradebook row.
var ErrStudentNotFound = errors.New("student not found in gradebook")

// ErrNoScoreColumn indicates the gradebook has no column to fill.
var ErrNoScoreColumn = errors.New("gradebook has no score column")

// ErrRaggedRow indicates a gradebook row holds data past the last header column.
var ErrRaggedRow = errors.New("gradebook row wider than header")

// LookupError reports an exported student absent from the gradebook.
type LookupError struct {
	Username string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", ErrStudentNotFound, e.Username)
}

func (e *LookupError) Unwrap() error {
	return ErrStudentNotFound
}

// Gradebook is a roster-shaped table whose last column holds the scores to fill.
type Gradebook struct {
	// Header is the column header row.
	Header []string
	// Rows holds one record per student, padded to the header width.
	Rows [][]string
	// Sheet is the worksheet name for XLSX gradebooks.
	Sheet string
}

// Read loads a gradebook from a .csv or .xlsx file.
func Read(path string) (*Gradebook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return Parse(bytes.NewReader(b))
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Parse reads a CSV gradebook.
func Parse(r io.Reader) (*Gradebook, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(bytes.NewReader(parser.StripBOM(b)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse gradebook: %w", err)
	}
	return fromRecords(records)
}

func readXLSX(path string) (*Gradebook, error) {
	sheet, rows, err := parser.ReadFirstSheet(path)
	if err != nil {
		return nil, err
	}
	g, err := fromRecords(rows)
	if err != nil {
		return nil, err
	}
	g.Sheet = sheet
	return g, nil
}

func fromRecords(records [][]string) (*Gradebook, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrNoScoreColumn
	}
	g := &Gradebook{Header: records[0]}
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		if len(rec) > len(g.Header) && !isBlank(rec[len(g.Header):]) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrRaggedRow, i+2, len(rec), len(g.Header))
		}
		row := make([]string, len(g.Header))
		copy(row, rec)
		g.Rows = append(g.Rows, row)
	}
	if err := parser.CheckColumns(g.Header, parser.ColUsername); err != nil {
		return nil, err
	}
	return g, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ScoreColumn is the index of the score column, always the last one.
func (g *Gradebook) ScoreColumn() int {
	return len(g.Header) - 1
}

// ScoreHeader is the score column's header text.
func (g *Gradebook) ScoreHeader() string {
	return g.Header[g.ScoreColumn()]
}

func (g *Gradebook) column(name string) int {
	if i, ok := parser.ColumnIndex(g.Header)[name]; ok {
		return i
	}
	return -1
}

// Find returns the index of the first row with the given username, or -1.
func (g *Gradebook) Find(username string) int {
	col := g.column(parser.ColUsername)
	if col < 0 {
		return -1
	}
	for i, row := range g.Rows {
		if strings.TrimSpace(row[col]) == username {
			return i
		}
	}
	return -1
}

// Write stores the gradebook as .csv or .xlsx, chosen by the path extension.
func (g *Gradebook) Write(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := g.WriteCSV(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".xlsx", ".xlsm":
		return g.writeXLSX(path)
	default:
		return fmt.Errorf("%w: %s", parser.ErrUnsupportedFormat, filepath.Base(path))
	}
}

// WriteCSV writes the gradebook as CSV.
func (g *Gradebook) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(g.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(g.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func (g *Gradebook) writeXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := g.Sheet
	if sheet == "" {
		sheet = "Gradebook"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &g.Header); err != nil {
		return err
	}
	scoreCol := g.ScoreColumn()
	for i, row := range g.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if j == scoreCol {
				if n, ok := parser.ParseNumber(v); ok {
					values[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
