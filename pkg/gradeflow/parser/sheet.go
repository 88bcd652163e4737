package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadFirstSheet returns the name and non-empty rows of a workbook's first sheet.
// Cells are trimmed and rows are padded to the header width.
func ReadFirstSheet(path string) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("%s: workbook has no sheets", filepath.Base(path))
	}
	rows, err := ExtractRows(f, sheets[0])
	if err != nil {
		return "", nil, err
	}
	return sheets[0], rows, nil
}

// ExtractRows reads a sheet's rows, dropping rows with no data.
func ExtractRows(f *excelize.File, sheetName string) ([][]string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var result [][]string
	width := 0
	for _, row := range rows {
		hasData := false
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strings.TrimSpace(v)
			if cells[i] != "" {
				hasData = true
			}
		}
		if !hasData {
			continue
		}
		if width == 0 {
			width = len(cells)
		}
		for len(cells) < width {
			cells = append(cells, "")
		}
		result = append(result, cells)
	}
	return result, nil
}
