package checks

import (
	"context"
	"strings"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

// NewPycodestyle lints Python sources with pycodestyle, or pep8 when only
// the old name is installed.
func NewPycodestyle(args []string) *ToolCheck {
	return NewToolCheck(ToolSpec{
		Name:   "pycodestyle",
		Tools:  []string{"pycodestyle", "pep8"},
		Filter: scanner.FilterOptions{IncludeExtensions: []string{".py"}},
		Batch:  10,
		Note:   "Python formatting errors detected",
		Invoke: func(ctx context.Context, t *Tool, _ *runner.Deps, files []string) ([]string, error) {
			out, err := t.Exec(ctx, nil, append(append([]string{}, args...), files...)...)
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
	})
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimRight(l, "\r"); strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
