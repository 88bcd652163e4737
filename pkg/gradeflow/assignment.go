package gradeflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/matcher"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/staging"
)

// FailedNotebook is the staging file name a rejected instructor notebook is moved to.
const FailedNotebook = "failed"

// CreateResult describes a created assignment.
type CreateResult struct {
	RunID      string `json:"run_id"`
	Assignment string `json:"assignment"`
	// Source is the instructor notebook inside the course.
	Source string `json:"source"`
	// Release is the generated student notebook.
	Release string `json:"release"`
	// Staged is the copy of the student notebook left in staging.
	Staged string `json:"staged"`
}

// CreateAssignment moves the single staged instructor notebook into
// source/<assignment>, validates it and generates the student version.
// A rejected notebook is moved back to staging as failed.ipynb, the source
// directory is removed and a *ValidationError is returned.
func CreateAssignment(ctx context.Context, opts Options, assignment string) (*CreateResult, error) {
	opts, id := opts.begin("create")
	c := opts.Course
	log := opts.Logger.With(zap.String("assignment", assignment))

	if err := opts.Tool.Check(); err != nil {
		return nil, err
	}
	files, err := staging.Expect(c.Staging(), 1)
	if err != nil {
		return nil, err
	}
	staged, err := staging.FindByExt(c.Staging(), files, c.NotebookExt)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.SourceDir(assignment), 0755); err != nil {
		return nil, err
	}
	src := c.SourceNotebook(assignment)
	if err := matcher.MoveFile(staged, src); err != nil {
		return nil, fmt.Errorf("move instructor notebook: %w", err)
	}

	log.Info("validating notebook", zap.String("notebook", src))
	res, err := opts.Tool.Validate(ctx, src)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		failed := filepath.Join(c.Staging(), FailedNotebook+c.NotebookExt)
		if err := matcher.MoveFile(src, failed); err != nil {
			return nil, fmt.Errorf("return rejected notebook: %w", err)
		}
		if err := os.RemoveAll(c.SourceDir(assignment)); err != nil {
			return nil, err
		}
		diags := res.Diagnostics
		if len(diags) == 0 {
			diags = []string{fmt.Sprintf("exit code %d", res.ExitCode)}
		}
		log.Warn("validation failed", zap.Strings("diagnostics", diags))
		return nil, &ValidationError{Assignment: assignment, Notebook: failed, Diagnostics: diags}
	}

	if _, err := opts.Tool.GenerateAssignment(ctx, c.Dir(), assignment); err != nil {
		return nil, err
	}
	release := c.ReleaseNotebook(assignment)
	copyPath := filepath.Join(c.Staging(), c.NotebookName(assignment))
	if err := matcher.CopyFile(release, copyPath); err != nil {
		return nil, fmt.Errorf("copy student notebook: %w", err)
	}

	log.Info("assignment created", zap.String("staged", copyPath))
	return &CreateResult{RunID: id, Assignment: assignment, Source: src, Release: release, Staged: copyPath}, nil
}
