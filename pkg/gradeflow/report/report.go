// Package report writes the grading summary workbook with distribution charts.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
)

// Sheet names in the report workbook.
const (
	SheetSummary      = "Summary"
	SheetDistribution = "Distribution"
	SheetComponents   = "Components"
)

// Data is everything the report renders.
type Data struct {
	Summary    models.Summary
	Bins       []models.Bin
	Components []models.ComponentStat
}

// WriteXLSX writes the report workbook to path.
func WriteXLSX(path string, d Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	if err := writeSummary(f, d.Summary); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetDistribution); err != nil {
		return err
	}
	if err := writeDistribution(f, d.Summary, d.Bins); err != nil {
		return fmt.Errorf("distribution sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetComponents); err != nil {
		return err
	}
	if err := writeComponents(f, d.Components); err != nil {
		return fmt.Errorf("components sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

func writeSummary(f *excelize.File, s models.Summary) error {
	rows := [][]interface{}{
		{"Assignment", s.Assignment},
		{"Max score", s.MaxScore},
		{"Students", s.Count},
		{"Average score", s.Mean},
		{"Standard deviation", s.StdDev},
		{},
		{"Students with a score of 0"},
		{"First Name", "Last Name", "Username", "grade"},
	}
	rows = append(rows, gradeRows(s.Zero)...)
	rows = append(rows, []interface{}{}, []interface{}{"Students with a score below 50% (excluding 0)"},
		[]interface{}{"First Name", "Last Name", "Username", "grade"})
	rows = append(rows, gradeRows(s.BelowHalf)...)

	if err := setRows(f, SheetSummary, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 44)
}

func gradeRows(rows []models.GradeRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{r.FirstName, r.LastName, r.Username, r.Grade})
	}
	return out
}

func writeDistribution(f *excelize.File, s models.Summary, bins []models.Bin) error {
	rows := [][]interface{}{{"Score", "Number of Students"}}
	for _, b := range bins {
		rows = append(rows, []interface{}{fmt.Sprintf("%g-%g", b.Lower, b.Upper), b.Count})
	}
	if err := setRows(f, SheetDistribution, rows); err != nil {
		return err
	}
	if len(bins) == 0 {
		return nil
	}
	last := len(bins) + 1
	return f.AddChart(SheetDistribution, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", SheetDistribution),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetDistribution, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", SheetDistribution, last),
		}},
		Title:  []excelize.RichTextRun{{Text: fmt.Sprintf("Grade Distribution (mean %.2f)", s.Mean)}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Score"}}},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: "Number of Students"}},
		},
		Dimension: excelize.ChartDimension{Width: 640, Height: 400},
	})
}

func writeComponents(f *excelize.File, stats []models.ComponentStat) error {
	rows := [][]interface{}{{"Question ID", "Average Score", "Standard Deviation"}}
	for _, c := range stats {
		rows = append(rows, []interface{}{c.ID, c.Mean, c.StdDev})
	}
	if err := setRows(f, SheetComponents, rows); err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}
	last := len(stats) + 1
	series := func(col string) excelize.ChartSeries {
		return excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetComponents, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetComponents, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetComponents, col, col, last),
		}
	}
	return f.AddChart(SheetComponents, "E2", &excelize.Chart{
		Type:   excelize.Col,
		Series: []excelize.ChartSeries{series("B"), series("C")},
		Title:  []excelize.RichTextRun{{Text: "Average Score per Question with Standard Deviation"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Question ID"}}},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: "Average Score"}},
		},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
	})
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
