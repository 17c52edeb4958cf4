// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

var shellFiles = scanner.FilterOptions{IncludeExtensions: []string{".sh"}}

// NewShfmt reports shell scripts whose layout differs from shfmt's. With
// fixing enabled the scripts are rewritten.
func NewShfmt(args []string) *ToolCheck {
	return NewToolCheck(ToolSpec{
		Name:   "shfmt",
		Tools:  []string{"shfmt"},
		Filter: shellFiles,
		Batch:  50,
		Note:   "Incorrect code style detected, run with --fix to reformat",
		Invoke: func(ctx context.Context, t *Tool, _ *runner.Deps, files []string) ([]string, error) {
			out, err := t.Exec(ctx, nil, withFiles(args, files, "-d")...)
			if err != nil {
				return nil, err
			}
			if out.Code == 0 {
				return nil, nil
			}
			hunks, perr := parseUnified(out.Stdout)
			if perr != nil || len(hunks) == 0 || out.Code != 1 {
				return nil, t.failed(out)
			}
			diags := make([]string, len(hunks))
			for i, h := range hunks {
				diags[i] = h.String()
			}
			return diags, nil
		},
		Fixable: func(deps *runner.Deps) bool { return deps.Fix },
		FileOf:  fileBeforeColon,
		Fix: func(ctx context.Context, t *Tool, _ *runner.Deps, files []string) (string, error) {
			out, err := t.Exec(ctx, nil, withFiles(args, files, "-w")...)
			if err != nil {
				return "", err
			}
			if out.Code != 0 {
				return "", t.failed(out)
			}
			return "The files have been automatically formatted. Remember to add them to your commit.", nil
		},
	})
}

// NewShellcheck runs static analysis on shell scripts. In apply mode the
// fixes shellcheck can express as a diff are applied with git apply.
func NewShellcheck(exclude []string, apply bool) *ToolCheck {
	base := []string{"--shell=bash"}
	if len(exclude) > 0 {
		base = append(base, "--exclude="+strings.Join(exclude, ","))
	}
	return NewToolCheck(ToolSpec{
		Name:   "shellcheck",
		Tools:  []string{"shellcheck"},
		Filter: shellFiles,
		Batch:  10,
		Note:   "Bash shellcheck errors detected",
		Invoke: func(ctx context.Context, t *Tool, _ *runner.Deps, files []string) ([]string, error) {
			out, err := t.Exec(ctx, nil, withFiles(base, files, "-f", "gcc")...)
			if err != nil {
				return nil, err
			}
			diags := nonEmptyLines(string(out.Stdout))
			switch {
			case out.Code == 0:
				return nil, nil
			case out.Code == 1 && len(diags) > 0:
				return diags, nil
			default:
				return nil, t.failed(out)
			}
		},
		Fixable: func(deps *runner.Deps) bool { return apply || deps.Fix },
		FileOf:  fileBeforeColon,
		Fix: func(ctx context.Context, t *Tool, deps *runner.Deps, files []string) (string, error) {
			out, err := t.Exec(ctx, nil, withFiles(base, files, "-f", "diff")...)
			if err != nil {
				return "", err
			}
			if out.Code > 1 {
				return "", t.failed(out)
			}
			hunks, err := parseUnified(out.Stdout)
			if err != nil {
				return "", err
			}
			if len(hunks) == 0 {
				return "", nil
			}

			git := &Tool{Bin: "git", Dir: deps.RepoRoot}
			res, err := git.Exec(ctx, bytes.NewReader(out.Stdout), "apply", "-")
			if err != nil {
				return "", err
			}
			if res.Code != 0 {
				return "", git.failed(res)
			}
			return fmt.Sprintf("Shellcheck fixes were applied to %d %s. Remember to add the changes to your commit.",
				len(hunks), plural(len(hunks), "file", "files")), nil
		},
	})
}

func withFiles(args, files []string, extra ...string) []string {
	all := make([]string, 0, len(args)+len(extra)+len(files))
	all = append(all, args...)
	all = append(all, extra...)
	return append(all, files...)
}
