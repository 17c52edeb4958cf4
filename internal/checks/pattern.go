// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

// Rule is a line pattern that marks a violation.
type Rule struct {
	Pattern *regexp.Regexp
	// Message is appended to the diagnostic when set.
	Message string
}

// PatternCheck scans text files line by line and reports every line matching
// one of its rules. A line is reported once even when several rules match.
type PatternCheck struct {
	name   string
	note   string
	filter scanner.FilterOptions
	rules  []Rule
}

// NewPatternCheck creates a check over the files selected by filter.
// note is shown above the diagnostics when the check fails.
func NewPatternCheck(name, note string, filter scanner.FilterOptions, rules ...Rule) *PatternCheck {
	return &PatternCheck{name: name, note: note, filter: filter, rules: rules}
}

func (c *PatternCheck) Name() string { return c.name }

func (c *PatternCheck) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	files, err := deps.Scanner.TextFiles(ctx, c.filter)
	if err != nil {
		return runner.Errorf(c.name, "listing files: %v", err)
	}

	var diags []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return runner.Errorf(c.name, "%v", err)
		}
		data, err := deps.Scanner.ReadFile(f.Path)
		if err != nil {
			return runner.Errorf(c.name, "reading %s: %v", f.Path, err)
		}
		diags = append(diags, c.scan(f.Path, data)...)
	}

	return runner.FromViolations(c.name, c.note, diags)
}

func (c *PatternCheck) scan(path string, data []byte) []string {
	var diags []string
	for i, line := range splitLines(data) {
		for _, r := range c.rules {
			if !r.Pattern.Match(line) {
				continue
			}
			d := fmt.Sprintf("%s:%d: %s", path, i+1, line)
			if r.Message != "" {
				d += "  (" + r.Message + ")"
			}
			diags = append(diags, d)
			break
		}
	}
	return diags
}

// splitLines splits on '\n' without yielding an empty element for the final
// newline.
func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	lines := bytes.Split(data, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
