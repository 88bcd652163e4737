package gradeflow

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/matcher"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/staging"
)

// StudentResult is the outcome of regrading one student.
type StudentResult struct {
	RunID      string `json:"run_id"`
	Username   string `json:"username"`
	Assignment string `json:"assignment"`
	// Feedback is the generated feedback HTML.
	Feedback string `json:"feedback"`
	// Scores are the component scores of the autograded notebook.
	Scores models.Scores `json:"scores"`
}

// AutogradeStudent moves the single staged notebook into the student's
// submission slot, grades it and renders feedback.
func AutogradeStudent(ctx context.Context, opts Options, username, assignment string) (*StudentResult, error) {
	opts, id := opts.begin("student")
	c := opts.Course
	log := opts.Logger.With(zap.String("assignment", assignment), zap.String("username", username))

	if info, err := os.Stat(c.StudentDir(username)); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoSubmissionDir, username)
	}
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

	if err := os.MkdirAll(c.SubmissionDir(username, assignment), 0755); err != nil {
		return nil, err
	}
	if err := matcher.MoveFile(staged, c.SubmittedNotebook(username, assignment)); err != nil {
		return nil, fmt.Errorf("move notebook: %w", err)
	}

	if _, err := opts.Tool.Autograde(ctx, c.Dir(), assignment, username); err != nil {
		return nil, err
	}
	if _, err := opts.Tool.GenerateFeedback(ctx, c.Dir(), assignment, username); err != nil {
		return nil, err
	}

	res := &StudentResult{RunID: id, Username: username, Assignment: assignment}
	res.Scores, err = parser.ReadScores(c.AutogradedNotebook(username, assignment))
	if err != nil {
		return nil, fmt.Errorf("read autograded notebook: %w", err)
	}
	res.Scores.Username = username

	res.Feedback = c.FeedbackHTML(username, assignment)
	if _, err := os.Stat(res.Feedback); err != nil {
		return nil, fmt.Errorf("feedback not generated: %w", err)
	}
	log.Info("student graded", zap.Float64("total", res.Scores.Total), zap.Float64("possible", res.Scores.Possible))
	return res, nil
}
