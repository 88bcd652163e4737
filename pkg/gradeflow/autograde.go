package gradeflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/gradebook"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/layout"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/matcher"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/output"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/report"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/staging"
)

// Scratch artifact names under scratch/<assignment>.
const (
	OriginalGradebook = "org_gradebook"
	GradedGradebook   = "gradedAssignment"
	SummaryFile       = "summary.json"
	ReportFile        = "report.xlsx"
)

// AssignmentReport is the outcome of autograding one assignment. It is also
// written to scratch/<assignment>/summary.json.
type AssignmentReport struct {
	RunID      string    `json:"run_id"`
	Assignment string    `json:"assignment"`
	GradedAt   time.Time `json:"graded_at"`
	// Matching is the reconciliation of the downloaded archive.
	Matching *matcher.Result `json:"matching"`
	// Placement lists notebooks copied into submission slots.
	Placement *matcher.Placement `json:"placement"`
	// Scores holds per-component scores of every autograded notebook.
	Scores []models.Scores `json:"scores"`
	// Replaced is the number of score cells coerced to 0.
	Replaced   int                    `json:"replaced"`
	Summary    models.Summary         `json:"summary"`
	Histogram  []models.Bin           `json:"histogram"`
	Components []models.ComponentStat `json:"components"`
	// Gradebook is the merged gradebook in scratch.
	Gradebook string `json:"gradebook"`
	// Staged is the copy of the merged gradebook left in staging.
	Staged string `json:"staged"`
	// Report is the XLSX report path, empty when disabled.
	Report string `json:"report,omitempty"`
}

// AutogradeAssignment grades a whole class from the LMS download archive and
// gradebook in the staging directory and merges the scores into the gradebook.
func AutogradeAssignment(ctx context.Context, opts Options, assignment string) (*AssignmentReport, error) {
	opts, id := opts.begin("autograde")
	c := opts.Course
	log := opts.Logger.With(zap.String("assignment", assignment))

	if err := opts.Tool.Check(); err != nil {
		return nil, err
	}
	files, err := staging.Expect(c.Staging(), 2)
	if err != nil {
		return nil, err
	}
	archive, err := staging.FindByExt(c.Staging(), files, ".zip")
	if err != nil {
		return nil, err
	}
	gbPath, err := staging.FindByExt(c.Staging(), files, ".csv", ".xlsx")
	if err != nil {
		return nil, err
	}

	scratch := c.ScratchDir(assignment)
	originals := c.OriginalsDir(assignment)
	if err := os.MkdirAll(originals, 0755); err != nil {
		return nil, err
	}
	if _, err := matcher.Extract(archive, originals); err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(archive), err)
	}

	rep := &AssignmentReport{RunID: id, Assignment: assignment, GradedAt: time.Now().UTC()}
	rep.Matching, err = matcher.Match(originals, opts.matchOptions())
	if err != nil {
		return nil, err
	}
	rep.Placement, err = matcher.Place(rep.Matching, c, assignment, log)
	if err != nil {
		return nil, err
	}
	log.Info("submissions placed",
		zap.Int("placed", len(rep.Placement.Placed)),
		zap.Int("skipped", len(rep.Matching.Skipped)+len(rep.Placement.Skipped)))

	if _, err := opts.Tool.Autograde(ctx, c.Dir(), assignment); err != nil {
		return nil, err
	}
	if _, err := opts.Tool.GenerateFeedback(ctx, c.Dir(), assignment); err != nil {
		return nil, err
	}

	gbExt := filepath.Ext(gbPath)
	orig := filepath.Join(scratch, OriginalGradebook+gbExt)
	if err := matcher.MoveFile(gbPath, orig); err != nil {
		return nil, fmt.Errorf("move gradebook: %w", err)
	}
	if err := os.Remove(archive); err != nil {
		return nil, err
	}

	rep.Scores = collectScores(c, assignment, rep.Placement.Usernames(), log)

	if _, err := opts.Tool.Export(ctx, c.Dir(), layout.ExportFile); err != nil {
		return nil, err
	}
	if _, err := os.Stat(c.ExportPath()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoExport, c.ExportPath())
	}
	export := filepath.Join(scratch, layout.ExportFile)
	if err := matcher.MoveFile(c.ExportPath(), export); err != nil {
		return nil, fmt.Errorf("move export: %w", err)
	}

	graded := filepath.Join(scratch, GradedGradebook+gbExt)
	if err := matcher.CopyFile(orig, graded); err != nil {
		return nil, err
	}
	gb, err := gradebook.Read(graded)
	if err != nil {
		return nil, fmt.Errorf("read gradebook: %w", err)
	}
	rows, err := gradebook.ReadExport(export)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	rows = gradebook.FilterAssignment(rows, assignment)
	if _, err := gb.Merge(rows, assignment); err != nil {
		return nil, err
	}
	rep.Replaced = gb.Normalize(opts.Placeholder)
	if err := gb.Write(graded); err != nil {
		return nil, fmt.Errorf("write gradebook: %w", err)
	}
	rep.Gradebook = graded

	maxScore, ok := gradebook.MaxScore(rows)
	if !ok {
		log.Warn("export has no rows for assignment, max score unknown")
	}
	rep.Summary = gb.Summarize(assignment, maxScore)
	rep.Histogram = gradebook.Histogram(gb.Scores(), maxScore)
	rep.Components = gradebook.ComponentStats(rep.Scores)

	if opts.Report {
		rep.Report = filepath.Join(scratch, ReportFile)
		err := report.WriteXLSX(rep.Report, report.Data{
			Summary:    rep.Summary,
			Bins:       rep.Histogram,
			Components: rep.Components,
		})
		if err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	rep.Staged = filepath.Join(c.Staging(), filepath.Base(graded))
	if err := matcher.CopyFile(graded, rep.Staged); err != nil {
		return nil, err
	}

	b, err := output.ToJSON(rep, true)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(scratch, SummaryFile), b, 0644); err != nil {
		return nil, err
	}

	log.Info("assignment graded",
		zap.Int("students", rep.Summary.Count),
		zap.Float64("mean", rep.Summary.Mean),
		zap.Float64("std_dev", rep.Summary.StdDev))
	return rep, nil
}

// collectScores extracts component scores from each autograded notebook.
// Students without an autograded notebook are left out.
func collectScores(c layout.Course, assignment string, usernames []string, log *zap.Logger) []models.Scores {
	out := []models.Scores{}
	for _, u := range usernames {
		path := c.AutogradedNotebook(u, assignment)
		s, err := parser.ReadScores(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("no autograded notebook", zap.String("username", u))
			continue
		}
		if err != nil {
			log.Warn("cannot read autograded notebook", zap.String("username", u), zap.Error(err))
			continue
		}
		s.Username = u
		out = append(out, s)
	}
	return out
}
