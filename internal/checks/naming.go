// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"errors"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/symbols"
	"github.com/bartekus/checkformat/internal/vcs"
)

// Naming compares HEAD with its first parent and requires every newly
// defined reserved-prefix function to be exported and publicly declared.
type Naming struct{}

func NewNaming() *Naming { return &Naming{} }

func (c *Naming) Name() string { return "naming-conventions" }

func (c *Naming) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	if deps.Repo == nil {
		return runner.Skip(c.Name(), "no git history available")
	}

	head, err := deps.Repo.Head()
	if errors.Is(err, vcs.ErrNoCommits) {
		return runner.Skip(c.Name(), "repository has no commits")
	}
	if err != nil {
		return runner.Errorf(c.Name(), "%v", err)
	}
	parent, ok, err := deps.Repo.FirstParent(head)
	if err != nil {
		return runner.Errorf(c.Name(), "%v", err)
	}
	if !ok {
		return runner.Skip(c.Name(), "HEAD has no parent commit to compare against")
	}

	cfg := deps.Config.Naming
	checker := symbols.NewChecker(deps.RepoRoot, deps.Repo, symbols.Options{
		Prefix:           cfg.ReservedPrefix,
		LibraryRoots:     cfg.LibraryRoots,
		SourceExtensions: cfg.SourceExtensions,
		HeaderRoots:      cfg.HeaderRoots,
		BlankMap:         cfg.BlankMap,
	})
	violations, err := checker.Check(ctx, parent, head)
	if err != nil {
		return runner.Errorf(c.Name(), "%v", err)
	}
	deps.Log().Debug("symbol export check done", "base", parent, "head", head, "violations", len(violations))

	diags := make([]string, len(violations))
	for i, v := range violations {
		diags[i] = v.String()
	}
	return runner.FromViolations(c.Name(),
		"Functions with the "+cfg.ReservedPrefix+" prefix must be added to their map file and a public header, or renamed without the prefix",
		diags)
}
