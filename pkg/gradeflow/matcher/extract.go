// Package matcher reconciles an LMS submission download with per-student submission slots.
package matcher

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrEmptyArchive indicates the archive or extraction directory holds no files.
var ErrEmptyArchive = errors.New("submission archive is empty")

// ErrDuplicateEntry indicates two archive entries flatten to the same file name.
var ErrDuplicateEntry = errors.New("duplicate file name in archive")

// Extract unpacks every file in the zip archive at zipPath directly into dest.
// Directory structure inside the archive is flattened to base names.
// Two entries sharing a base name fail with ErrDuplicateEntry.
// It returns the extracted file names.
func Extract(zipPath, dest string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]string)
	for _, zf := range r.File {
		if zf.FileInfo().IsDir() || strings.HasPrefix(zf.Name, "__MACOSX/") {
			continue
		}
		name := path.Base(strings.ReplaceAll(zf.Name, "\\", "/"))
		if name == "." || name == ".." || name == "/" || strings.HasPrefix(name, ".") {
			continue
		}
		if prev, ok := seen[name]; ok {
			return names, fmt.Errorf("%w: %s and %s", ErrDuplicateEntry, prev, zf.Name)
		}
		seen[name] = zf.Name
		if err := extractFile(zf, filepath.Join(dest, name)); err != nil {
			return names, fmt.Errorf("extract %s: %w", zf.Name, err)
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyArchive, filepath.Base(zipPath))
	}
	return names, nil
}

func extractFile(zf *zip.File, dst string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, zf.Modified, zf.Modified)
}
