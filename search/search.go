package search

import (
	"io/fs"
	"path/filepath"
)

// trawl recursively walks dir, collecting paths whose basename matches
// pattern. Kept as a standalone step so FindSonarLogs can be called
// against either a single vendor's extension or a caller-supplied one.
func trawl(root, pattern string) ([]string, error) {
	var items []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		match, err := filepath.Match(pattern, filepath.Base(path))
		if err != nil {
			return err
		}
		if match {
			items = append(items, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// FindSonarLogs recursively searches the local filesystem under dir
// for files matching pattern (e.g. "*.sl2" for Vendor-L, "*.DAT" for
// Vendor-H), for use by the batch job dispatcher (spec.md §5:
// parallel job dispatch is "apply a pure per-file function to N
// files").
func FindSonarLogs(dir, pattern string) ([]string, error) {
	return trawl(dir, pattern)
}
