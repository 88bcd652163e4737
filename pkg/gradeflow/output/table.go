package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
)

// WriteGradeRows prints rows as an aligned First/Last/Username/grade table.
func WriteGradeRows(w io.Writer, rows []models.GradeRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "First Name\tLast Name\tUsername\tgrade")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\n", r.FirstName, r.LastName, r.Username, r.Grade)
	}
	return tw.Flush()
}

// WriteSummary prints the zero-score and below-half reports followed by the statistics.
func WriteSummary(w io.Writer, s models.Summary) error {
	fmt.Fprintln(w, "Students with a score of 0:")
	if err := WriteGradeRows(w, s.Zero); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Students with a score below 50% (excluding 0):")
	if err := WriteGradeRows(w, s.BelowHalf); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Average Score: %.2f\n", s.Mean)
	_, err := fmt.Fprintf(w, "Standard Deviation: %.2f\n", s.StdDev)
	return err
}

// WriteScores prints one notebook's component scores.
func WriteScores(w io.Writer, s models.Scores) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "component\tearned\tpoints")
	for _, c := range s.Components {
		fmt.Fprintf(tw, "%s\t%g\t%g\n", c.ID, c.Earned, c.Points)
	}
	fmt.Fprintf(tw, "%s\t%g\t%g\n", models.TotalKey, s.Total, s.Possible)
	return tw.Flush()
}

// WriteSkips prints skipped submissions as a Username/File/Reason table.
func WriteSkips(w io.Writer, skips []models.Skip) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Username\tFile\tReason")
	for _, s := range skips {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Username, s.File, s.Reason)
	}
	return tw.Flush()
}

// WriteSubmissions prints matched submissions as a Username/Receipt/Notebook table.
func WriteSubmissions(w io.Writer, subs []models.Submission) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Username\tReceipt\tNotebook")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Username, s.ReceiptFile, s.NotebookFile)
	}
	return tw.Flush()
}
