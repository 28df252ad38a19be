//go:build !wasm

package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// GitLocator uses the enclosing git repository's worktree as the root.
type GitLocator struct{}

// Root walks up from path looking for a git repository.
func (GitLocator) Root(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(filepath.Dir(path), &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", ErrNoRoot
		}
		return "", fmt.Errorf("opening repository for %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to sandbox against.
		return "", ErrNoRoot
	}
	return filepath.Clean(wt.Filesystem.Root()), nil
}
