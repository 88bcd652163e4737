// Package staging checks the drop folder an operator fills before each operation.
package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrStagingCount indicates the staging directory holds an unexpected number of files.
var ErrStagingCount = errors.New("unexpected staging file count")

// ErrNotFound indicates no staged file has the requested extension.
var ErrNotFound = errors.New("no staged file with expected extension")

// CountError reports a staging directory that does not hold the expected number of files.
type CountError struct {
	Dir  string
	Want int
	Got  int
}

func (e *CountError) Error() string {
	noun := "files"
	if e.Want == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s expected in %s, found %d", e.Want, noun, e.Dir, e.Got)
}

func (e *CountError) Unwrap() error {
	return ErrStagingCount
}

// List returns the regular, non-hidden files in dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Expect returns the files in dir, or a *CountError when there are not exactly n.
func Expect(dir string, n int) ([]string, error) {
	files, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(files) != n {
		return nil, &CountError{Dir: dir, Want: n, Got: len(files)}
	}
	return files, nil
}

// FindByExt returns the full path of the first file whose extension matches one of exts.
func FindByExt(dir string, files []string, exts ...string) (string, error) {
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				return filepath.Join(dir, f), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, strings.Join(exts, ", "), dir)
}
