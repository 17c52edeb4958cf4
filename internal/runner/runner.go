package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrChecksFailed is returned when at least one check failed.
var ErrChecksFailed = errors.New("checks failed")

// Runner manages the execution of checks.
type Runner struct {
	checks  []Checker
	deps    *Deps
	printer Printer
}

// NewRunner creates a new runner with the given checks and dependencies.
// printer may be nil.
func NewRunner(checks []Checker, deps *Deps, printer Printer) *Runner {
	return &Runner{
		checks:  checks,
		deps:    deps,
		printer: printer,
	}
}

// RunAll executes all checks in order.
// It continues execution even if a check fails, accumulating failures.
// The error wraps ErrChecksFailed if ANY check failed.
func (r *Runner) RunAll(ctx context.Context) (*Report, error) {
	return r.executeSequence(ctx, r.checks)
}

// RunList executes a specific list of checks by name, in the given order.
func (r *Runner) RunList(ctx context.Context, names []string) (*Report, error) {
	var toRun []Checker
	for _, name := range names {
		c := r.find(name)
		if c == nil {
			return nil, fmt.Errorf("check not found: %s", name)
		}
		toRun = append(toRun, c)
	}
	return r.executeSequence(ctx, toRun)
}

func (r *Runner) find(name string) Checker {
	for _, c := range r.checks {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func (r *Runner) executeSequence(ctx context.Context, checks []Checker) (*Report, error) {
	report := &Report{Status: "pass"}
	log := r.deps.Log()

	for _, c := range checks {
		name := c.Name()
		if r.printer != nil {
			r.printer.Start(name)
		}

		start := time.Now()
		res := runOne(ctx, c, r.deps)
		res.Check = name
		res.Duration = time.Since(start)

		log.Debug("check finished",
			"check", name,
			"status", string(res.Status),
			"violations", len(res.Diagnostics),
			"duration", res.Duration,
		)

		report.Add(res)
		if r.printer != nil {
			r.printer.Finish(res)
		}
	}

	if report.HasFailures() {
		return report, fmt.Errorf("%w: %s", ErrChecksFailed, strings.Join(report.Failed, ", "))
	}
	return report, nil
}

// runOne isolates a check so that a panic only fails that check.
func runOne(ctx context.Context, c Checker, deps *Deps) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Errorf(c.Name(), "check panicked: %v", p)
		}
	}()
	return c.Run(ctx, deps)
}
