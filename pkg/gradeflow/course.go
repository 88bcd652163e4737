package gradeflow

import (
	"context"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/nbgrader"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/staging"
)

// SetupResult describes a provisioned course.
type SetupResult struct {
	RunID string `json:"run_id"`
	// CourseDir is the course directory.
	CourseDir string `json:"course_dir"`
	// Quickstarted is true when the course was scaffolded by this run.
	Quickstarted bool `json:"quickstarted"`
	// Roster is the student list read from staging.
	Roster models.Roster `json:"roster"`
	// Created lists students whose submitted folder was created by this run.
	Created []string `json:"created"`
}

// importRow is one row of the student import file.
type importRow struct {
	ID        string `csv:"id"`
	FirstName string `csv:"first_name"`
	LastName  string `csv:"last_name"`
}

// SetupCourse scaffolds the course, creates a submitted folder per roster
// student and replaces the tool's demo students with the roster.
// The roster is the single .csv or .xlsx file in the staging directory.
func SetupCourse(ctx context.Context, opts Options) (*SetupResult, error) {
	opts, id := opts.begin("setup")
	c := opts.Course
	log := opts.Logger

	if err := opts.Tool.Check(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.Root, 0755); err != nil {
		return nil, err
	}

	res := &SetupResult{RunID: id, CourseDir: c.Dir()}
	if _, err := os.Stat(c.Dir()); os.IsNotExist(err) {
		if _, err := opts.Tool.Quickstart(ctx, c.Root, c.Name); err != nil {
			return nil, fmt.Errorf("quickstart %s: %w", c.Name, err)
		}
		res.Quickstarted = true
	} else {
		log.Info("course directory exists, skipping quickstart", zap.String("dir", c.Dir()))
	}

	for _, dir := range []string{c.SubmittedRoot(), c.ScratchRoot(), c.Staging()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	files, err := staging.Expect(c.Staging(), 1)
	if err != nil {
		return nil, err
	}
	rosterPath, err := staging.FindByExt(c.Staging(), files, ".csv", ".xlsx")
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	roster, err := parser.ReadRoster(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", rosterPath, err)
	}
	res.Roster = roster

	for _, u := range roster.Usernames() {
		dir := c.StudentDir(u)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.Mkdir(dir, 0755); err != nil {
			return nil, err
		}
		res.Created = append(res.Created, u)
	}

	for _, demo := range nbgrader.QuickstartStudents {
		if _, err := opts.Tool.RemoveStudent(ctx, c.Dir(), demo); err != nil {
			return nil, err
		}
	}
	if err := importStudents(ctx, opts, roster); err != nil {
		return nil, err
	}

	log.Info("course ready",
		zap.String("course", c.Name),
		zap.Int("students", len(roster.Students)),
		zap.Int("created", len(res.Created)))
	return res, nil
}

func importStudents(ctx context.Context, opts Options, roster models.Roster) error {
	rows := make([]importRow, 0, len(roster.Students))
	for _, s := range roster.Students {
		rows = append(rows, importRow{ID: s.Username, FirstName: s.FirstName, LastName: s.LastName})
	}

	f, err := os.CreateTemp(opts.Course.Dir(), "students-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write student import: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if _, err := opts.Tool.ImportStudents(ctx, opts.Course.Dir(), f.Name()); err != nil {
		return fmt.Errorf("import students: %w", err)
	}
	return nil
}
