package parser

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "First Name")
	f.SetCellValue(sheetName, "B1", "Username")
	f.SetCellValue(sheetName, "C1", "HW1")
	f.SetCellValue(sheetName, "A2", " Alice ")
	f.SetCellValue(sheetName, "B2", "alice")
	f.SetCellValue(sheetName, "C2", 7.5)
	// row 3 left empty
	f.SetCellValue(sheetName, "A4", "Bob")
	f.SetCellValue(sheetName, "B4", "bob")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	name, rows, err := ReadFirstSheet(tmpFile)
	if err != nil {
		t.Fatalf("ReadFirstSheet failed: %v", err)
	}
	if name != sheetName {
		t.Errorf("Expected sheet %q, got %q", sheetName, name)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != "Alice" {
		t.Errorf("Expected trimmed 'Alice', got %q", rows[1][0])
	}
	if rows[1][2] != "7.5" {
		t.Errorf("Expected '7.5', got %q", rows[1][2])
	}
	if len(rows[2]) != 3 || rows[2][2] != "" {
		t.Errorf("Expected padded row, got %v", rows[2])
	}
}

func TestReadFirstSheetMissingFile(t *testing.T) {
	if _, _, err := ReadFirstSheet(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("Expected error for missing workbook")
	}
}
