// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the working-tree root of the enclosing git
// repository.
package projectroot

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when no git repository encloses the directory.
var ErrNotRepository = errors.New("not inside a git repository")

// Find walks up from dir until it finds a git working tree and returns its
// absolute root.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, abs)
		}
		return "", fmt.Errorf("opening repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no files to check.
		return "", fmt.Errorf("%w: %s has no working tree", ErrNotRepository, abs)
	}
	return wt.Filesystem.Root(), nil
}
