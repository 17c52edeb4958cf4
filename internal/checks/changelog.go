// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
	"github.com/bartekus/checkformat/internal/vcs"
)

// Changelog reminds the author to update the changelog when a public
// interface changes. It never fails.
type Changelog struct{}

func NewChangelog() *Changelog { return &Changelog{} }

func (c *Changelog) Name() string { return "changelog" }

func (c *Changelog) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	if deps.Repo == nil {
		return runner.Skip(c.Name(), "no git history available")
	}

	changed, err := changedFiles(ctx, deps.Repo)
	if errors.Is(err, vcs.ErrNoCommits) {
		return runner.Skip(c.Name(), "repository has no commits")
	}
	if err != nil {
		return runner.Errorf(c.Name(), "%v", err)
	}

	cfg := deps.Config.Changelog
	if slices.Contains(changed, cfg.File) {
		return runner.Pass(c.Name(), "")
	}

	var notes []string
	for _, p := range changed {
		for _, glob := range cfg.PublicSurface {
			if scanner.MatchGlob(glob, p) {
				notes = append(notes, fmt.Sprintf("%s was modified. Consider updating %s.", p, cfg.File))
				break
			}
		}
	}
	return runner.Pass(c.Name(), strings.Join(notes, "\n"))
}

// changedFiles returns the uncommitted changes, or the files HEAD touched
// when the working tree is clean.
func changedFiles(ctx context.Context, repo *vcs.Repo) ([]string, error) {
	changed, err := repo.WorktreeChanges()
	if err != nil {
		return nil, err
	}
	if len(changed) > 0 {
		return changed, nil
	}

	head, err := repo.Head()
	if err != nil {
		return nil, err
	}
	parent, ok, err := repo.FirstParent(head)
	if err != nil {
		return nil, err
	}
	if !ok {
		return repo.ChangedFiles(ctx, "", head)
	}
	return repo.ChangedFiles(ctx, parent, head)
}
