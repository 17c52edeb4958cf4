// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

// Tool runs one resolved executable from the repository root.
type Tool struct {
	Bin string
	Dir string
}

// Output is what one tool invocation produced.
type Output struct {
	Stdout []byte
	Stderr []byte
	Code   int
}

// Text returns stdout and stderr joined, trimmed.
func (o Output) Text() string {
	return strings.TrimSpace(string(o.Stdout) + string(o.Stderr))
}

// Exec runs the tool. A non-zero exit status is reported in Output.Code;
// the error is set only when the process could not run at all.
func (t *Tool) Exec(ctx context.Context, stdin io.Reader, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, t.Bin, args...)
	cmd.Dir = t.Dir
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.Code = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("running %s: %w", t.Bin, err)
	}
	return out, nil
}

// failed wraps ErrToolFailed with whatever the tool printed.
func (t *Tool) failed(out Output) error {
	text := out.Text()
	if text == "" {
		return fmt.Errorf("%w: %s exited with status %d", ErrToolFailed, t.Bin, out.Code)
	}
	return fmt.Errorf("%w: %s exited with status %d:\n%s", ErrToolFailed, t.Bin, out.Code, text)
}

// ToolSpec describes an external formatter or linter.
type ToolSpec struct {
	Name string
	// Tools are tried in order; the first one on PATH is used.
	Tools  []string
	Filter scanner.FilterOptions
	// Batch is the number of files per invocation.
	Batch int
	// Note is shown above the diagnostics when the check fails.
	Note string

	// Probe runs once before any file is processed. A non-empty reason
	// skips the check.
	Probe func(ctx context.Context, t *Tool) (reason string, err error)
	// Invoke checks one batch and returns one diagnostic per violation.
	Invoke func(ctx context.Context, t *Tool, deps *runner.Deps, files []string) ([]string, error)
	// Fix runs after a failing check when fixing is enabled, over the files
	// that had violations. The returned text is added to the note.
	Fix func(ctx context.Context, t *Tool, deps *runner.Deps, files []string) (string, error)
	// Fixable reports whether Fix applies for this run.
	Fixable func(deps *runner.Deps) bool
	// FileOf extracts the file a diagnostic belongs to, for Fix.
	FileOf func(diag string) string
}

// ToolCheck adapts a ToolSpec to runner.Checker. Batches run on a worker
// pool bounded by the number of CPUs; diagnostics are sorted.
type ToolCheck struct {
	spec ToolSpec
}

func NewToolCheck(spec ToolSpec) *ToolCheck {
	if spec.Batch <= 0 {
		spec.Batch = 1
	}
	return &ToolCheck{spec: spec}
}

func (c *ToolCheck) Name() string { return c.spec.Name }

func (c *ToolCheck) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	name := c.spec.Name

	tool, err := lookTool(c.spec.Tools, deps.RepoRoot)
	if err != nil {
		deps.Log().Warn("formatter not installed, check skipped", "check", name, "tools", c.spec.Tools)
		return runner.Skip(name, fmt.Sprintf("%v; %s is not being checked", err, name))
	}

	files, err := deps.Scanner.TextFiles(ctx, c.spec.Filter)
	if err != nil {
		return runner.Errorf(name, "listing files: %v", err)
	}
	if len(files) == 0 {
		return runner.Pass(name, "no files to check")
	}

	if c.spec.Probe != nil {
		reason, err := c.spec.Probe(ctx, tool)
		if err != nil {
			return runner.Errorf(name, "%v", err)
		}
		if reason != "" {
			deps.Log().Warn("check skipped", "check", name, "reason", reason)
			return runner.Skip(name, reason)
		}
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	diags, err := c.runBatches(ctx, tool, deps, paths)
	if err != nil {
		return runner.Errorf(name, "%v", err)
	}
	if len(diags) == 0 {
		return runner.Pass(name, "")
	}

	note := c.spec.Note
	if c.spec.Fix != nil && (c.spec.Fixable == nil || c.spec.Fixable(deps)) {
		fixed, err := c.spec.Fix(ctx, tool, deps, c.filesOf(diags))
		if err != nil {
			note += fmt.Sprintf("\nfixing failed: %v", err)
		} else if fixed != "" {
			note += "\n" + fixed
		}
	}
	return runner.Fail(name, note, diags)
}

func (c *ToolCheck) runBatches(ctx context.Context, tool *Tool, deps *runner.Deps, paths []string) ([]string, error) {
	var batches [][]string
	for i := 0; i < len(paths); i += c.spec.Batch {
		end := min(i+c.spec.Batch, len(paths))
		batches = append(batches, paths[i:end])
	}

	results := make([][]string, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			diags, err := c.spec.Invoke(gctx, tool, deps, batch)
			if err != nil {
				return err
			}
			results[i] = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var diags []string
	for _, r := range results {
		diags = append(diags, r...)
	}
	sort.Strings(diags)
	return diags, nil
}

func (c *ToolCheck) filesOf(diags []string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, d := range diags {
		f := d
		if c.spec.FileOf != nil {
			f = c.spec.FileOf(d)
		}
		if f != "" && !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files
}

func lookTool(candidates []string, dir string) (*Tool, error) {
	for _, name := range candidates {
		if bin, err := exec.LookPath(name); err == nil {
			return &Tool{Bin: bin, Dir: dir}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrToolMissing, strings.Join(candidates, " or "))
}

// fileBeforeColon returns the part of a "path:line: ..." diagnostic before the first colon.
func fileBeforeColon(diag string) string {
	f, _, _ := strings.Cut(diag, ":")
	return f
}
