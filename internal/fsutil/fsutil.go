// Package fsutil collects the small filesystem operations the orchestrator
// and its steps need: existence/freshness checks, directory creation and
// removal, and a non-recursive directory listing. It is a thin wrapper
// around os/filepath, calling os.MkdirAll/os.Stat/os.RemoveAll directly
// rather than through a filesystem abstraction library.
package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/xerrors"
)

// DirMode is the permission bits used for directories this module creates.
const DirMode = 0o755

// Exists reports whether path exists (of any type).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ModTime returns path's modification time, or the zero Time if path does
// not exist. A missing file sorts before every real timestamp, so
// IsNewer(existing, missing) is true and IsNewer(missing, anything) is
// false.
func ModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// IsNewer reports whether a's modification time is strictly after b's. A
// missing a is never newer than anything; a missing b is older than any
// existing a.
func IsNewer(a, b string) bool {
	return ModTime(a).After(ModTime(b))
}

// MkdirAll creates dir and any missing parents with DirMode permissions.
func MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return xerrors.Errorf("fsutil.MkdirAll(%s): %w", dir, err)
	}
	return nil
}

// RemoveAll deletes dir and everything under it. Removing a directory that
// does not exist is not an error.
func RemoveAll(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return xerrors.Errorf("fsutil.RemoveAll(%s): %w", dir, err)
	}
	return nil
}

// ListDir returns the non-directory entries directly inside dir, sorted by
// name.
// It does not descend into subdirectories: a source directory listing
// should not silently pull in whatever some nested build output dropped
// there.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("fsutil.ListDir(%s): %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
