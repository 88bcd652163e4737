package matcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/layout"
)

const nbContent = `{"cells": [], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func newCourse(t *testing.T, students ...string) layout.Course {
	t.Helper()
	c := layout.New(t.TempDir(), "course")
	for _, s := range students {
		require.NoError(t, os.MkdirAll(c.StudentDir(s), 0755))
	}
	return c
}

func TestMatchAndPlaceRosterScenario(t *testing.T) {
	course := newCourse(t, "alice", "bob", "carol")
	zipPath := filepath.Join(t.TempDir(), "gradebook_HW1.zip")
	writeZip(t, zipPath, map[string]string{
		"HW1_alice_attempt_2025-09-08-10-00-00.txt":          "Name: Alice Adams (alice)\nAssignment: HW1\n",
		"HW1_alice_attempt_2025-09-08-10-00-00_hw1.ipynb":    nbContent,
		"HW1_bob_attempt_2025-09-08-11-00-00.txt":            "Name: Bob Brown (bob)\n",
		"HW1_bob_attempt_2025-09-08-11-00-00_homework.ipynb": nbContent,
		"HW1_guest_attempt_2025-09-08-12-00-00.txt":          "Name: Guest Student\n",
		"HW1_guest_attempt_2025-09-08-12-00-00_hw1.ipynb":    nbContent,
	})

	dest := course.OriginalsDir("hw1")
	names, err := Extract(zipPath, dest)
	require.NoError(t, err)
	assert.Len(t, names, 6)

	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	res, err := Match(dest, Options{Logger: log})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, res.Usernames())
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, Unidentified, res.Skipped[0].Username)
	assert.Equal(t, ReasonUnidentified, res.Skipped[0].Reason)
	assert.False(t, res.CountMismatch())
	assert.Equal(t, 1, logs.FilterMessage("skipping submission").Len())

	placement, err := Place(res, course, "hw1", log)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, placement.Usernames())
	assert.Empty(t, placement.Skipped)

	assert.FileExists(t, course.SubmittedNotebook("alice", "hw1"))
	assert.FileExists(t, course.SubmittedNotebook("bob", "hw1"))
	assert.NoDirExists(t, course.SubmissionDir("carol", "hw1"))
}

func TestMatchSkips(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		// blank submission sorts between two complete pairs
		"A_amy_attempt_1.txt":         "Name: Amy (amy)\n",
		"A_amy_attempt_1_hw.ipynb":    nbContent,
		"A_ben_attempt_1.txt":         "Name: Ben (ben)\n",
		"A_cat_attempt_1.txt":         "Name: Cat (cat)\n",
		"A_cat_attempt_1_hw.py":       "print(1)",
		"A_dan_attempt_1.txt":         "Name: Dan (dan)\n",
		"A_dan_attempt_1_a.ipynb":     nbContent,
		"A_dan_attempt_1_b.ipynb":     nbContent,
		"A_eve_attempt_1.txt":         "Name: Eve (eve)\n",
		"A_eve_attempt_1_hw.ipynb":    nbContent,
		"A_eve_attempt_2.txt":         "Name: Eve (eve)\n",
		"A_eve_attempt_2_final.ipynb": nbContent,
		"stray.ipynb":                 nbContent,
	})

	res, err := Match(dir, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"amy", "eve"}, res.Usernames())
	assert.Equal(t, "A_eve_attempt_2_final.ipynb", res.Matched[1].NotebookFile)

	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.Username] = s.Reason
	}
	assert.Equal(t, ReasonBlank, reasons["ben"])
	assert.Equal(t, ReasonNotNotebook, reasons["cat"])
	assert.Equal(t, ReasonAmbiguous, reasons["dan"])
	assert.Equal(t, ReasonSuperseded, reasons["eve"])
	assert.Equal(t, ReasonOrphan, reasons[Unidentified])

	assert.Equal(t, 6, res.Receipts)
	assert.Equal(t, 6, res.Notebooks)
}

func TestMatchEmptyAndNoSubmissions(t *testing.T) {
	_, err := Match(t.TempDir(), DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyArchive)

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"A_zed_attempt_1.txt": "no identity here\n",
	})
	res, err := Match(dir, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoSubmissions)
	require.NotNil(t, res)
	assert.Len(t, res.Skipped, 1)
	assert.True(t, res.CountMismatch())
}

func TestMatchSurvivesBadReceipts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"A_amy_attempt_1.txt":      "Name: Amy (amy)\nComments: " + strings.Repeat("a", 70000) + "\n",
		"A_amy_attempt_1_hw.ipynb": nbContent,
		"A_bob_attempt_1.txt":      "Name: Bob (bob)\n",
		"A_bob_attempt_1_hw.ipynb": nbContent,
	})
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "A_cy_attempt_1.txt")))

	res, err := Match(dir, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"amy", "bob"}, res.Usernames())
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, Unidentified, res.Skipped[0].Username)
	assert.Equal(t, "A_cy_attempt_1.txt", res.Skipped[0].File)
	assert.Equal(t, ReasonUnreadable, res.Skipped[0].Reason)
}

func TestPlaceSkipsStudentWithoutFolder(t *testing.T) {
	course := newCourse(t, "alice")
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"A_alice_attempt_1.txt":      "Name: Alice (alice)\n",
		"A_alice_attempt_1_nb.ipynb": nbContent,
		"A_ghost_attempt_1.txt":      "Name: Ghost (ghost)\n",
		"A_ghost_attempt_1_nb.ipynb": nbContent,
	})

	res, err := Match(dir, DefaultOptions())
	require.NoError(t, err)

	placement, err := Place(res, course, "hw2", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, placement.Usernames())
	require.Len(t, placement.Skipped, 1)
	assert.Equal(t, "ghost", placement.Skipped[0].Username)
	assert.Equal(t, ReasonNoFolder, placement.Skipped[0].Reason)
	assert.NoDirExists(t, course.StudentDir("ghost"))
}

func TestExtractEmptyArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "empty.zip")
	writeZip(t, zipPath, map[string]string{"__MACOSX/._x": "junk"})
	_, err := Extract(zipPath, t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyArchive)
}

func TestExtractFlattensDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "nested.zip")
	writeZip(t, zipPath, map[string]string{"Gradebook HW1/a.txt": "Name: A (a)\n"})
	dest := t.TempDir()
	names, err := Extract(zipPath, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)
	assert.FileExists(t, filepath.Join(dest, "a.txt"))
}

func TestExtractDuplicateBaseNames(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "dup.zip")
	writeZip(t, zipPath, map[string]string{
		"one/a.txt": "Name: A (a)\n",
		"two/a.txt": "Name: B (b)\n",
	})
	_, err := Extract(zipPath, t.TempDir())
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}
