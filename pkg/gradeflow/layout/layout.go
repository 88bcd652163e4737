// Package layout derives every course path from explicit roots.
package layout

import "path/filepath"

// DefaultNotebookExt is the notebook extension used by the grading tool.
const DefaultNotebookExt = ".ipynb"

// Directory names created by the grading tool and by gradeflow.
const (
	DirSource     = "source"
	DirRelease    = "release"
	DirSubmitted  = "submitted"
	DirAutograded = "autograded"
	DirFeedback   = "feedback"
	DirScratch    = "scratch"
	DirOriginals  = "original_files"
)

// ExportFile is the file the grading tool's export writes in the course root.
const ExportFile = "grades.csv"

// Course describes where a course and its staging directory live.
type Course struct {
	// Root is the folder containing the course directory and the staging directory.
	Root string
	// Name is the course directory name.
	Name string
	// StagingDir is the staging directory name under Root.
	StagingDir string
	// NotebookExt is the notebook extension, including the dot.
	NotebookExt string
}

// New returns a Course with default staging dir and notebook extension.
func New(root, name string) Course {
	return Course{Root: root, Name: name, StagingDir: "temp", NotebookExt: DefaultNotebookExt}
}

func (c Course) ext() string {
	if c.NotebookExt == "" {
		return DefaultNotebookExt
	}
	return c.NotebookExt
}

// Dir is the course root directory.
func (c Course) Dir() string { return filepath.Join(c.Root, c.Name) }

// Staging is the staging directory.
func (c Course) Staging() string {
	if c.StagingDir == "" {
		return filepath.Join(c.Root, "temp")
	}
	if filepath.IsAbs(c.StagingDir) {
		return c.StagingDir
	}
	return filepath.Join(c.Root, c.StagingDir)
}

// NotebookName returns "<assignment><ext>".
func (c Course) NotebookName(assignment string) string { return assignment + c.ext() }

// SourceDir is source/<a>.
func (c Course) SourceDir(assignment string) string {
	return filepath.Join(c.Dir(), DirSource, assignment)
}

// SourceNotebook is source/<a>/<a>.ipynb.
func (c Course) SourceNotebook(assignment string) string {
	return filepath.Join(c.SourceDir(assignment), c.NotebookName(assignment))
}

// ReleaseNotebook is release/<a>/<a>.ipynb.
func (c Course) ReleaseNotebook(assignment string) string {
	return filepath.Join(c.Dir(), DirRelease, assignment, c.NotebookName(assignment))
}

// SubmittedRoot is submitted/.
func (c Course) SubmittedRoot() string { return filepath.Join(c.Dir(), DirSubmitted) }

// StudentDir is submitted/<user>.
func (c Course) StudentDir(username string) string {
	return filepath.Join(c.SubmittedRoot(), username)
}

// SubmissionDir is submitted/<user>/<a>.
func (c Course) SubmissionDir(username, assignment string) string {
	return filepath.Join(c.StudentDir(username), assignment)
}

// SubmittedNotebook is submitted/<user>/<a>/<a>.ipynb.
func (c Course) SubmittedNotebook(username, assignment string) string {
	return filepath.Join(c.SubmissionDir(username, assignment), c.NotebookName(assignment))
}

// AutogradedNotebook is autograded/<user>/<a>/<a>.ipynb.
func (c Course) AutogradedNotebook(username, assignment string) string {
	return filepath.Join(c.Dir(), DirAutograded, username, assignment, c.NotebookName(assignment))
}

// FeedbackHTML is feedback/<user>/<a>/<a>.html.
func (c Course) FeedbackHTML(username, assignment string) string {
	return filepath.Join(c.Dir(), DirFeedback, username, assignment, assignment+".html")
}

// ScratchRoot is scratch/.
func (c Course) ScratchRoot() string { return filepath.Join(c.Dir(), DirScratch) }

// ScratchDir is scratch/<a>.
func (c Course) ScratchDir(assignment string) string {
	return filepath.Join(c.ScratchRoot(), assignment)
}

// OriginalsDir is scratch/<a>/original_files, where the archive is unpacked.
func (c Course) OriginalsDir(assignment string) string {
	return filepath.Join(c.ScratchDir(assignment), DirOriginals)
}

// ExportPath is the grading tool's export file in the course root.
func (c Course) ExportPath() string { return filepath.Join(c.Dir(), ExportFile) }
