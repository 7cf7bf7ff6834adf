package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
)

// Tree is a temporary repository layout rooted in t.TempDir.
type Tree struct {
	t    *testing.T
	root string
}

// NewTree creates an empty tree. The root has symlinks resolved so paths
// compare equal to what os.Getwd or git report on macOS.
func NewTree(t *testing.T) *Tree {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return &Tree{t: t, root: root}
}

// NewGitTree creates an empty tree initialized as a git worktree.
func NewGitTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree(t)
	if _, err := git.PlainInit(tree.root, false); err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	return tree
}

// Root returns the absolute root directory.
func (tr *Tree) Root() string { return tr.root }

// Path joins rel (slash separated) onto the root.
func (tr *Tree) Path(rel string) string {
	return filepath.Join(tr.root, filepath.FromSlash(rel))
}

// WriteFile writes content to rel, creating parent directories.
func (tr *Tree) WriteFile(rel, content string) *Tree {
	tr.t.Helper()
	path := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tr.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tr.t.Fatalf("failed to write %s: %v", path, err)
	}
	return tr
}

// Mkdir creates rel and its parents.
func (tr *Tree) Mkdir(rel string) *Tree {
	tr.t.Helper()
	if err := os.MkdirAll(tr.Path(rel), 0o755); err != nil {
		tr.t.Fatalf("failed to create %s: %v", rel, err)
	}
	return tr
}

// Remove deletes rel recursively.
func (tr *Tree) Remove(rel string) *Tree {
	tr.t.Helper()
	if err := os.RemoveAll(tr.Path(rel)); err != nil {
		tr.t.Fatalf("failed to remove %s: %v", rel, err)
	}
	return tr
}

// Assert returns assertions rooted at the tree.
func (tr *Tree) Assert() *FileAssertions {
	return NewFileAssertions(tr.t, tr.root)
}
