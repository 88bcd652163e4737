// Package gradeflow runs the course grading workflows around the external
// notebook grading tool: course setup, assignment creation, whole-class
// autograding and single-student regrading.
package gradeflow

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/gradebook"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/layout"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/matcher"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/nbgrader"
)

// Options configures a workflow run.
type Options struct {
	// Course locates the course directory and the staging directory.
	Course layout.Course
	// Tool invokes the grading tool. If nil, the default binary is used.
	Tool *nbgrader.Tool
	// Logger receives progress and skip diagnostics. If nil, nothing is logged.
	Logger *zap.Logger
	// Placeholder is the gradebook text marking an ungraded cell.
	Placeholder string
	// ReceiptExt is the extension of LMS submission receipts.
	ReceiptExt string
	// Report enables the XLSX report next to summary.json.
	Report bool
}

// DefaultOptions returns options for course name under root.
func DefaultOptions(root, name string) Options {
	return Options{
		Course:      layout.New(root, name),
		Placeholder: gradebook.DefaultPlaceholder,
		ReceiptExt:  matcher.DefaultOptions().ReceiptExt,
		Report:      true,
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Tool == nil {
		o.Tool = nbgrader.New(nbgrader.DefaultBinary, o.Logger)
	}
	if o.Placeholder == "" {
		o.Placeholder = gradebook.DefaultPlaceholder
	}
	if o.ReceiptExt == "" {
		o.ReceiptExt = matcher.DefaultOptions().ReceiptExt
	}
	if o.Course.NotebookExt == "" {
		o.Course.NotebookExt = layout.DefaultNotebookExt
	}
	return o
}

// begin tags the logger and the tool with a fresh run id.
func (o Options) begin(op string) (Options, string) {
	o = o.withDefaults()
	id := uuid.NewString()
	o.Logger = o.Logger.With(zap.String("op", op), zap.String("run_id", id))
	tool := *o.Tool
	tool.Log = o.Logger
	o.Tool = &tool
	return o, id
}

func (o Options) matchOptions() matcher.Options {
	return matcher.Options{
		ReceiptExt:  o.ReceiptExt,
		NotebookExt: o.Course.NotebookExt,
		Logger:      o.Logger,
	}
}
