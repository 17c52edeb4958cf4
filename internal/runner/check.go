package runner

import (
	"context"
	"log/slog"

	"github.com/bartekus/checkformat/internal/config"
	"github.com/bartekus/checkformat/internal/scanner"
	"github.com/bartekus/checkformat/internal/vcs"
)

// Deps contains dependencies injected into checks.
type Deps struct {
	RepoRoot string
	Scanner  *scanner.Scanner
	Repo     *vcs.Repo
	Config   config.Config
	// Fix allows checks with an apply mode to rewrite working-tree files.
	Fix    bool
	Logger *slog.Logger
}

// Log returns the configured logger, or the default one.
func (d *Deps) Log() *slog.Logger {
	if d == nil || d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Checker is one entry of the ordered check list.
type Checker interface {
	// Name returns the unique identifier (e.g. "naming-conventions").
	Name() string

	// Run executes the check. Violations are reported in the result, never
	// as a panic or an error.
	Run(ctx context.Context, deps *Deps) Result
}

// Printer receives progress as the runner works through the list.
type Printer interface {
	Start(name string)
	Finish(res Result)
}
