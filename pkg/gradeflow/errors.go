package gradeflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidationFailed indicates the grading tool rejected an instructor notebook.
var ErrValidationFailed = errors.New("notebook validation failed")

// ErrNoSubmissionDir indicates a student has no submitted folder in the course.
var ErrNoSubmissionDir = errors.New("student has no submitted folder")

// ErrNoExport indicates the grading tool's export did not produce a score file.
var ErrNoExport = errors.New("grading tool export missing")

// ValidationError reports a rejected instructor notebook and where it was moved.
type ValidationError struct {
	Assignment  string
	Notebook    string // staging path the rejected notebook was moved to
	Diagnostics []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("validation of %q failed, notebook moved to %s", e.Assignment, e.Notebook)
	if len(e.Diagnostics) > 0 {
		msg += ": " + strings.Join(e.Diagnostics, "; ")
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
