// Package security validates externally supplied inputs before they reach
// the filesystem.
package security

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath reports a missing file path.
	ErrEmptyPath = errors.New("security: empty file path")
	// ErrOutsideBase reports a path that escapes the allowed directory.
	ErrOutsideBase = errors.New("security: path escapes base directory")
)

// CheckFilePath verifies that path is usable and, when baseDir is given,
// that it resolves to a location inside baseDir. With an empty baseDir only
// the path itself is checked for traversal.
func CheckFilePath(path, baseDir string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}

	clean := filepath.Clean(path)
	if baseDir == "" {
		if containsTraversal(clean) {
			return ErrOutsideBase
		}
		return nil
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return ErrOutsideBase
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrOutsideBase
	}
	return nil
}

func containsTraversal(clean string) bool {
	for _, part := range strings.Split(clean, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	return false
}
