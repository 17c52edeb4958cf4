// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

// nonExecutable lists extensions (or whole base names when there is no dot)
// that must never carry the executable bit.
var nonExecutable = map[string]bool{
	"c": true, "h": true, "cpp": true, "cc": true, "cxx": true, "hh": true, "hpp": true,
	"md": true, "html": true, "js": true, "json": true, "svg": true, "Doxyfile": true,
	"yml": true, "yaml": true, "LICENSE": true, "README": true, "conf": true, "in": true,
	"Makefile": true, "mk": true, "gitignore": true, "go": true, "txt": true,
}

// Permissions checks that the executable bit agrees with the file type.
type Permissions struct{}

func NewPermissions() *Permissions { return &Permissions{} }

func (c *Permissions) Name() string { return "permissions" }

func (c *Permissions) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	files, err := deps.Scanner.Files(ctx, scanner.FilterOptions{})
	if err != nil {
		return runner.Errorf(c.Name(), "listing files: %v", err)
	}

	var diags []string
	for _, f := range files {
		if !f.Regular {
			continue
		}
		if nonExecutable[suffixKey(f.Path)] {
			if f.Executable {
				diags = append(diags, fmt.Sprintf("%s is marked executable but is a code file.", f.Path))
			}
			continue
		}

		shebang, err := hasShebang(deps.Scanner.Abs(f.Path))
		if err != nil {
			return runner.Errorf(c.Name(), "%v", err)
		}
		switch {
		case f.Executable && !shebang:
			diags = append(diags, fmt.Sprintf("%s is marked executable but does not start with a shebang.", f.Path))
		case !f.Executable && shebang:
			diags = append(diags, fmt.Sprintf("%s is not marked executable but starts with a shebang.", f.Path))
		}
	}

	return runner.FromViolations(c.Name(), "Incorrect file permissions detected", diags)
}

func suffixKey(p string) string {
	base := path.Base(p)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i+1:]
	}
	return base
}

func hasShebang(abs string) (bool, error) {
	fh, err := os.Open(abs) //nolint:gosec // G304: path comes from git ls-files
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", abs, err)
	}
	defer func() { _ = fh.Close() }()

	buf := make([]byte, 3)
	n, err := io.ReadFull(fh, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, fmt.Errorf("reading %s: %w", abs, err)
	}
	return string(buf[:n]) == "#!/", nil
}
