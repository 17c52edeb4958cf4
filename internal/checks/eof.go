package checks

import (
	"context"
	"fmt"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

// EOFNewline requires every non-empty text file to end with a newline.
type EOFNewline struct{}

func NewEOFNewline() *EOFNewline { return &EOFNewline{} }

func (c *EOFNewline) Name() string { return "eof-newline" }

func (c *EOFNewline) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	files, err := deps.Scanner.TextFiles(ctx, scanner.FilterOptions{ExcludeGlobs: patchExt})
	if err != nil {
		return runner.Errorf(c.Name(), "listing files: %v", err)
	}

	var diags []string
	for _, f := range files {
		data, err := deps.Scanner.ReadFile(f.Path)
		if err != nil {
			return runner.Errorf(c.Name(), "reading %s: %v", f.Path, err)
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			diags = append(diags, fmt.Sprintf("%s: missing newline at end of file", f.Path))
		}
	}

	return runner.FromViolations(c.Name(), "Files must end with a newline", diags)
}
