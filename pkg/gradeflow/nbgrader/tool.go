package nbgrader

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// QuickstartStudents are the demo students the quickstart command creates.
var QuickstartStudents = []string{"bitdiddle", "hacker"}

// Tool wraps a Runner with the grading operations gradeflow needs.
type Tool struct {
	Runner Runner
	Binary string
	Log    *zap.Logger
}

// New returns a Tool running binary as a child process.
func New(binary string, log *zap.Logger) *Tool {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tool{Runner: ExecRunner{Binary: binary}, Binary: binary, Log: log}
}

// Check returns ErrToolNotFound when the binary cannot be located.
// Tools backed by a custom Runner are assumed available.
func (t *Tool) Check() error {
	if _, ok := t.Runner.(ExecRunner); !ok {
		return nil
	}
	if _, err := exec.LookPath(t.Binary); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, t.Binary)
	}
	return nil
}

// run executes one command; failures become a *ToolError unless lenient is set.
func (t *Tool) run(ctx context.Context, lenient bool, dir string, args ...string) (Result, error) {
	log := t.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("running grading tool", zap.Strings("args", args), zap.String("dir", dir))
	res, err := t.Runner.Run(ctx, dir, args...)
	if err != nil {
		return res, err
	}
	if !res.OK() {
		log.Warn("grading tool reported failure",
			zap.Strings("args", args),
			zap.Int("exit_code", res.ExitCode),
			zap.Strings("diagnostics", res.Diagnostics))
		if !lenient {
			return res, &ToolError{Result: res}
		}
	}
	return res, nil
}

// Quickstart scaffolds a new course directory named course inside parent.
func (t *Tool) Quickstart(ctx context.Context, parent, course string) (Result, error) {
	return t.run(ctx, false, parent, "quickstart", course)
}

// RemoveStudent deletes a student from the tool's database. A missing student is not an error.
func (t *Tool) RemoveStudent(ctx context.Context, courseDir, username string) (Result, error) {
	return t.run(ctx, true, courseDir, "db", "student", "remove", username, "--force")
}

// ImportStudents loads students from a CSV with id, first_name and last_name columns.
func (t *Tool) ImportStudents(ctx context.Context, courseDir, csvPath string) (Result, error) {
	return t.run(ctx, false, courseDir, "db", "student", "import", csvPath)
}

// Autograde grades every submission of assignment. Per-student failures are
// reported by the tool but do not fail the batch.
func (t *Tool) Autograde(ctx context.Context, courseDir, assignment string, student ...string) (Result, error) {
	args := []string{"autograde", assignment}
	for _, s := range student {
		args = append(args, "--student", s)
	}
	return t.run(ctx, true, courseDir, args...)
}

// GenerateFeedback renders HTML feedback for graded submissions.
func (t *Tool) GenerateFeedback(ctx context.Context, courseDir, assignment string, student ...string) (Result, error) {
	args := []string{"generate_feedback", assignment}
	for _, s := range student {
		args = append(args, "--student", s)
	}
	return t.run(ctx, true, courseDir, args...)
}

// Validate checks an instructor notebook. Validation failures are returned in
// the Result, not as an error, so callers can clean up.
func (t *Tool) Validate(ctx context.Context, notebookPath string) (Result, error) {
	return t.run(ctx, true, filepath.Dir(notebookPath), "validate", filepath.Base(notebookPath))
}

// GenerateAssignment produces the student version of assignment in release/.
func (t *Tool) GenerateAssignment(ctx context.Context, courseDir, assignment string) (Result, error) {
	return t.run(ctx, false, courseDir, "generate_assignment", assignment, "--force")
}

// Export writes the score table to target, relative to courseDir.
func (t *Tool) Export(ctx context.Context, courseDir, target string) (Result, error) {
	return t.run(ctx, false, courseDir, "export", "--to", target)
}

// IsToolError reports whether err came from a failed invocation.
func IsToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}
