package git

import (
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when no enclosing worktree exists.
var ErrNotRepository = errors.New("not inside a git worktree")

// FindRoot walks up from start to the top of the enclosing git worktree.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return "", ErrNotRepository
	}
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, gogit.ErrIsBareRepository) {
		return "", ErrNotRepository
	}
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// RootOrDir returns the worktree root containing dir, or dir itself when it
// is not inside a worktree.
func RootOrDir(dir string) (string, error) {
	root, err := FindRoot(dir)
	if errors.Is(err, ErrNotRepository) {
		return filepath.Abs(dir)
	}
	return root, err
}
