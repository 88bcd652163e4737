package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseRosterCSV(t *testing.T) {
	content := "\xEF\xBB\xBF\"Last Name\",\"First Name\",\"Username\",\"Student ID\",\"HW1 [Total Pts: 10 Score] |123\"\n" +
		"Adams,Alice,alice,1001,Needs Grading\n" +
		"Brown,Bob,bob,1002,\n" +
		"Nobody,No,,1003,\n" +
		"Adams,Alice,alice,1001,\n"

	roster, err := ParseRosterCSV([]byte(content))
	if err != nil {
		t.Fatalf("ParseRosterCSV failed: %v", err)
	}
	if len(roster.Students) != 2 {
		t.Fatalf("expected 2 students, got %d: %+v", len(roster.Students), roster.Students)
	}
	alice := roster.Students[0]
	if alice.Username != "alice" || alice.FirstName != "Alice" || alice.LastName != "Adams" {
		t.Errorf("unexpected first student: %+v", alice)
	}
	if _, ok := roster.Lookup("bob"); !ok {
		t.Error("expected bob in roster")
	}
}

func TestParseRosterCSVMissingColumn(t *testing.T) {
	_, err := ParseRosterCSV([]byte("Last Name,First Name,Email\nAdams,Alice,a@x\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadRosterXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Username")
	f.SetCellValue(sheetName, "B1", "First Name")
	f.SetCellValue(sheetName, "C1", "Last Name")
	f.SetCellValue(sheetName, "A2", "carol")
	f.SetCellValue(sheetName, "B2", "Carol")
	f.SetCellValue(sheetName, "C2", "Clark")

	tmpFile := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	roster, err := ReadRoster(tmpFile)
	if err != nil {
		t.Fatalf("ReadRoster failed: %v", err)
	}
	if len(roster.Students) != 1 || roster.Students[0].Username != "carol" || roster.Students[0].LastName != "Clark" {
		t.Errorf("unexpected roster: %+v", roster.Students)
	}
}

func TestReadRosterUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRoster(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"123", 123, true},
		{"123.45", 123.45, true},
		{" -100 ", -100, true},
		{"Needs Grading", 0, false},
		{"", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-infinity", 0, false},
		{"1e3", 1000, true},
	}

	for _, tt := range tests {
		result, ok := ParseNumber(tt.input)
		if result != tt.expected || ok != tt.ok {
			t.Errorf("ParseNumber(%q) = (%v, %v), expected (%v, %v)", tt.input, result, ok, tt.expected, tt.ok)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0.0"},
		{50, "50.0"},
		{7.5, "7.5"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.expected {
			t.Errorf("FormatNumber(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
