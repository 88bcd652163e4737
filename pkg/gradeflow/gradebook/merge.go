package gradebook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
)

// Export column headers written by the grading tool.
var exportColumns = []string{"assignment", "student_id", "score", "max_score"}

// ReadExport parses the grading tool's score export.
func ReadExport(path string) ([]models.ExportedScore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseExport(b)
}

// ParseExport parses score export CSV content. Extra columns are ignored.
func ParseExport(b []byte) ([]models.ExportedScore, error) {
	b = parser.StripBOM(b)
	if err := checkExportHeader(b); err != nil {
		return nil, err
	}
	var rows []models.ExportedScore
	if err := gocsv.UnmarshalBytes(b, &rows); err != nil {
		return nil, fmt.Errorf("parse score export: %w", err)
	}
	return rows, nil
}

func checkExportHeader(b []byte) error {
	line := string(b)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	header := strings.Split(line, ",")
	for i := range header {
		header[i] = strings.Trim(header[i], `" `)
	}
	return parser.CheckColumns(header, exportColumns...)
}

// FilterAssignment keeps the rows for one assignment.
func FilterAssignment(rows []models.ExportedScore, assignment string) []models.ExportedScore {
	var out []models.ExportedScore
	for _, r := range rows {
		if r.Assignment == assignment {
			out = append(out, r)
		}
	}
	return out
}

// MaxScore returns the assignment's max score from its first exported row.
func MaxScore(rows []models.ExportedScore) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	return rows[0].MaxScore, true
}

// Merge writes each exported score for assignment into the matching student's score cell.
// An exported student with no gradebook row aborts the merge with a *LookupError.
// It returns the number of rows written.
func (g *Gradebook) Merge(rows []models.ExportedScore, assignment string) (int, error) {
	userCol := g.column(parser.ColUsername)
	if userCol < 0 {
		return 0, fmt.Errorf("%w: %q", parser.ErrMissingColumn, parser.ColUsername)
	}
	scoreCol := g.ScoreColumn()
	if scoreCol == userCol {
		return 0, ErrNoScoreColumn
	}
	n := 0
	for _, r := range FilterAssignment(rows, assignment) {
		i := g.Find(r.StudentID)
		if i < 0 {
			return n, &LookupError{Username: r.StudentID}
		}
		g.Rows[i][scoreCol] = parser.FormatNumber(r.Score)
		n++
	}
	return n, nil
}

// Normalize coerces the score column to numbers.
// Placeholder text, empty cells and any other non-numeric text become 0.0.
// It returns the number of cells that were replaced.
func (g *Gradebook) Normalize(placeholder string) int {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	scoreCol := g.ScoreColumn()
	replaced := 0
	for _, row := range g.Rows {
		cell := strings.TrimSpace(row[scoreCol])
		v, ok := parser.ParseNumber(cell)
		if !ok || cell == placeholder {
			v = 0
			replaced++
		}
		row[scoreCol] = parser.FormatNumber(v)
	}
	return replaced
}

// Scores returns the score column as numbers; non-numeric cells read as 0.
func (g *Gradebook) Scores() []float64 {
	scoreCol := g.ScoreColumn()
	out := make([]float64, len(g.Rows))
	for i, row := range g.Rows {
		out[i], _ = parser.ParseNumber(row[scoreCol])
	}
	return out
}

// MergeFile runs the whole merge for one assignment: read gradebook and export,
// merge, normalize, and write the result to out.
func MergeFile(gradebookPath, exportPath, assignment, out, placeholder string) (*Gradebook, []models.ExportedScore, error) {
	g, err := Read(gradebookPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read gradebook: %w", err)
	}
	rows, err := ReadExport(exportPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read export: %w", err)
	}
	rows = FilterAssignment(rows, assignment)
	if _, err := g.Merge(rows, assignment); err != nil {
		return nil, nil, err
	}
	g.Normalize(placeholder)
	if out != "" {
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return nil, nil, err
		}
		if err := g.Write(out); err != nil {
			return nil, nil, fmt.Errorf("write gradebook: %w", err)
		}
	}
	return g, rows, nil
}
