package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
)

// Roster column headers.
const (
	ColFirstName = "First Name"
	ColLastName  = "Last Name"
	ColUsername  = "Username"
)

// RequiredRosterColumns must be present in every roster file.
var RequiredRosterColumns = []string{ColFirstName, ColLastName, ColUsername}

// ErrMissingColumn indicates a required column is absent from a header row.
var ErrMissingColumn = errors.New("missing required column")

// ErrUnsupportedFormat indicates a spreadsheet extension gradeflow cannot read.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ReadRoster loads a roster from a .csv or .xlsx file.
func ReadRoster(path string) (models.Roster, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		b, err := os.ReadFile(path)
		if err != nil {
			return models.Roster{}, err
		}
		return ParseRosterCSV(b)
	case ".xlsx", ".xlsm":
		return readRosterXLSX(path)
	default:
		return models.Roster{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ParseRosterCSV parses roster CSV content. Extra columns are ignored.
func ParseRosterCSV(b []byte) (models.Roster, error) {
	b = StripBOM(b)
	header, err := csv.NewReader(bytes.NewReader(b)).Read()
	if err != nil {
		return models.Roster{}, fmt.Errorf("read roster header: %w", err)
	}
	if err := CheckColumns(header, RequiredRosterColumns...); err != nil {
		return models.Roster{}, err
	}

	var students []models.Student
	if err := gocsv.UnmarshalBytes(b, &students); err != nil {
		return models.Roster{}, fmt.Errorf("parse roster: %w", err)
	}
	return newRoster(students), nil
}

func readRosterXLSX(path string) (models.Roster, error) {
	_, rows, err := ReadFirstSheet(path)
	if err != nil {
		return models.Roster{}, err
	}
	if len(rows) == 0 {
		return models.Roster{}, fmt.Errorf("%w: %s is empty", ErrMissingColumn, filepath.Base(path))
	}
	if err := CheckColumns(rows[0], RequiredRosterColumns...); err != nil {
		return models.Roster{}, err
	}

	idx := ColumnIndex(rows[0])
	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var students []models.Student
	for _, row := range rows[1:] {
		students = append(students, models.Student{
			LastName:  cell(row, ColLastName),
			FirstName: cell(row, ColFirstName),
			Username:  cell(row, ColUsername),
		})
	}
	return newRoster(students), nil
}

// newRoster drops rows without a username and keeps the first entry per username.
func newRoster(students []models.Student) models.Roster {
	seen := make(map[string]bool, len(students))
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		s.Username = strings.TrimSpace(s.Username)
		if s.Username == "" || seen[s.Username] {
			continue
		}
		seen[s.Username] = true
		out = append(out, s)
	}
	return models.Roster{Students: out}
}

// ColumnIndex maps trimmed header names to their first column index.
func ColumnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// CheckColumns returns ErrMissingColumn naming every absent column.
func CheckColumns(header []string, required ...string) error {
	idx := ColumnIndex(header)
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, fmt.Sprintf("%q", col))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
