package matcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/layout"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
)

// Placement is the outcome of copying matched notebooks into submission slots.
type Placement struct {
	// Placed holds the submissions copied into the course.
	Placed []models.Submission `json:"placed"`
	// Skipped holds students without a pre-provisioned submitted folder.
	Skipped []models.Skip `json:"skipped"`
}

// Usernames returns the placed usernames.
func (p *Placement) Usernames() []string {
	out := make([]string, 0, len(p.Placed))
	for _, s := range p.Placed {
		out = append(out, s.Username)
	}
	return out
}

// Place copies each matched notebook to submitted/<user>/<assignment>/<assignment>.ipynb.
// Students without an existing submitted/<user> folder are skipped.
func Place(res *Result, course layout.Course, assignment string, log *zap.Logger) (*Placement, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Placement{}
	for _, sub := range res.Matched {
		info, err := os.Stat(course.StudentDir(sub.Username))
		if err != nil || !info.IsDir() {
			p.Skipped = append(p.Skipped, models.Skip{Username: sub.Username, File: sub.NotebookFile, Reason: ReasonNoFolder})
			log.Warn("skipping submission",
				zap.String("username", sub.Username),
				zap.String("file", sub.NotebookFile),
				zap.String("reason", ReasonNoFolder))
			continue
		}

		if err := os.MkdirAll(course.SubmissionDir(sub.Username, assignment), 0755); err != nil {
			return p, err
		}
		src := filepath.Join(res.Dir, sub.NotebookFile)
		dst := course.SubmittedNotebook(sub.Username, assignment)
		if err := CopyFile(src, dst); err != nil {
			return p, fmt.Errorf("copy %s for %s: %w", sub.NotebookFile, sub.Username, err)
		}
		log.Debug("placed submission", zap.String("username", sub.Username), zap.String("dst", dst))
		p.Placed = append(p.Placed, sub)
	}
	return p, nil
}

// CopyFile copies src to dst, preserving the modification time.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// MoveFile renames src to dst, falling back to copy and remove across filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
