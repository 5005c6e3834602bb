package security

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCheckFilePath_NoBaseDir(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"relative file", "zips.json", nil},
		{"nested file", "data/zips.json", nil},
		{"absolute file", "/var/data/zips.json", nil},
		{"dot segment collapses", "./data/../zips.json", nil},
		{"empty", "", ErrEmptyPath},
		{"whitespace only", "   ", ErrEmptyPath},
		{"escapes upward", "../secrets.json", ErrOutsideBase},
		{"escapes deep", "data/../../secrets.json", ErrOutsideBase},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckFilePath(tc.path, "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("CheckFilePath(%q) = %v, want %v", tc.path, err, tc.wantErr)
			}
		})
	}
}

func TestCheckFilePath_WithBaseDir(t *testing.T) {
	base := t.TempDir()

	if err := CheckFilePath(filepath.Join(base, "zips.json"), base); err != nil {
		t.Fatalf("path inside base rejected: %v", err)
	}
	if err := CheckFilePath(filepath.Join(base, "..", "other.json"), base); !errors.Is(err, ErrOutsideBase) {
		t.Fatalf("expected ErrOutsideBase, got %v", err)
	}
}
