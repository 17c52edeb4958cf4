// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

// Supported astyle versions: [3.0.1, 3.4).
var (
	astyleMin = []int{3, 0, 1}
	astyleMax = []int{3, 4}
)

// NewAstyle formats C and C++ sources in place; every file astyle had to
// touch is a violation.
func NewAstyle(optionsFile string) *ToolCheck {
	return NewToolCheck(ToolSpec{
		Name:  "astyle",
		Tools: []string{"astyle"},
		Filter: scanner.FilterOptions{
			IncludeExtensions: cppLike,
			ExcludeGlobs:      []string{"lib/env_dpdk/**/*.h"},
		},
		Batch: 10,
		Note: "Incorrect code style detected in one or more files.\n" +
			"The files have been automatically formatted.\n" +
			"Remember to add the files to your commit.",
		Probe: probeAstyle,
		Invoke: func(ctx context.Context, t *Tool, _ *runner.Deps, files []string) ([]string, error) {
			return runAstyle(ctx, t, optionsFile, files)
		},
	})
}

func runAstyle(ctx context.Context, t *Tool, optionsFile string, files []string) ([]string, error) {
	var cFiles, cppFiles []string
	for _, f := range files {
		switch path.Ext(f) {
		case ".c", ".h":
			cFiles = append(cFiles, f)
		default:
			cppFiles = append(cppFiles, f)
		}
	}

	opt := "--options=" + optionsFile
	var diags []string
	for _, group := range []struct {
		files []string
		args  []string
	}{
		{cFiles, []string{"--break-return-type", "--attach-return-type-decl", opt}},
		{cppFiles, []string{opt}},
	} {
		if len(group.files) == 0 {
			continue
		}
		out, err := t.Exec(ctx, nil, append(group.args, group.files...)...)
		if err != nil {
			return nil, err
		}
		if out.Code != 0 {
			return nil, t.failed(out)
		}
		diags = append(diags, parseAstyle(string(out.Stdout))...)
	}
	return diags, nil
}

// parseAstyle keeps the "Formatted" lines, collapsing astyle's column padding.
func parseAstyle(out string) []string {
	var diags []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Formatted") {
			diags = append(diags, strings.Join(strings.Fields(line), " "))
		}
	}
	return diags
}

func probeAstyle(ctx context.Context, t *Tool) (string, error) {
	out, err := t.Exec(ctx, nil, "--version")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(out.Text())
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: astyle --version printed nothing", ErrToolFailed)
	}
	raw := fields[len(fields)-1]
	v, err := parseVersion(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrToolFailed, err)
	}
	switch {
	case compareVersions(v, astyleMin) < 0:
		return fmt.Sprintf("astyle %s is too old, need at least 3.0.1; code style is not being checked", raw), nil
	case compareVersions(v, astyleMax) >= 0:
		return fmt.Sprintf("astyle %s is too new, need one older than 3.4; code style is not being checked", raw), nil
	}
	return "", nil
}

func parseVersion(s string) ([]int, error) {
	s = strings.TrimPrefix(s, "v")
	parts := strings.Split(s, ".")
	v := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("unparsable version %q", s)
		}
		v[i] = n
	}
	return v, nil
}

// compareVersions compares component-wise; missing components count as 0.
func compareVersions(a, b []int) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}
