package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// FileAssertions checks filesystem state relative to a base directory.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a regular file exists at rel.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	info, err := os.Lstat(fa.path(rel))
	switch {
	case err != nil:
		fa.t.Errorf("Expected file to exist: %s (%v)", rel, err)
	case !info.Mode().IsRegular():
		fa.t.Errorf("Expected %s to be a regular file, got %s", rel, info.Mode().Type())
	}
	return fa
}

// AssertFileNotExists validates that nothing exists at rel.
func (fa *FileAssertions) AssertFileNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Lstat(fa.path(rel)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", rel)
	}
	return fa
}

// AssertFileContains validates that the file at rel contains expected.
func (fa *FileAssertions) AssertFileContains(rel, expected string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(rel))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", rel, err)
		return fa
	}
	if !strings.Contains(string(content), expected) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, content)
	}
	return fa
}

// AssertLinked validates that src and dst share storage identity.
func (fa *FileAssertions) AssertLinked(src, dst string) *FileAssertions {
	fa.t.Helper()
	si, err := os.Stat(fa.path(src))
	if err != nil {
		fa.t.Errorf("Failed to stat %s: %v", src, err)
		return fa
	}
	di, err := os.Stat(fa.path(dst))
	if err != nil {
		fa.t.Errorf("Failed to stat %s: %v", dst, err)
		return fa
	}
	if !os.SameFile(si, di) {
		fa.t.Errorf("Expected %s to be a hardlink of %s", dst, src)
	}
	return fa
}

// AssertModTime validates that rel was last modified at want.
func (fa *FileAssertions) AssertModTime(rel string, want time.Time) *FileAssertions {
	fa.t.Helper()
	info, err := os.Stat(fa.path(rel))
	if err != nil {
		fa.t.Errorf("Failed to stat %s: %v", rel, err)
		return fa
	}
	if !info.ModTime().Equal(want) {
		fa.t.Errorf("Expected %s to keep mtime %s, got %s", rel, want, info.ModTime())
	}
	return fa
}

// ListFiles returns the names of non-directory entries in rel, sorted.
func (fa *FileAssertions) ListFiles(rel string) []string {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(rel))
	if err != nil {
		fa.t.Logf("Failed to read directory %s: %v", rel, err)
		return nil
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files
}
