package checks

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// fileHunks is the part of a unified diff the shell checks report on.
type fileHunks struct {
	Path  string
	Lines []int32 // first original line of each hunk
}

// parseUnified reads a multi-file unified diff as printed by shfmt -d or
// shellcheck -f diff. Files without hunks are dropped.
func parseUnified(out []byte) ([]fileHunks, error) {
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}
	fds, err := diff.NewMultiFileDiffReader(bytes.NewReader(out)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	var files []fileHunks
	for _, fd := range fds {
		if len(fd.Hunks) == 0 {
			continue
		}
		fh := fileHunks{Path: diffPath(fd)}
		for _, h := range fd.Hunks {
			fh.Lines = append(fh.Lines, h.OrigStartLine)
		}
		files = append(files, fh)
	}
	return files, nil
}

func diffPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	if strings.HasPrefix(fd.OrigName, "a/") && strings.HasPrefix(fd.NewName, "b/") {
		name = strings.TrimPrefix(name, "b/")
	}
	return strings.TrimSuffix(name, ".orig")
}

func (f fileHunks) String() string {
	lines := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		lines[i] = strconv.Itoa(int(l))
	}
	return fmt.Sprintf("%s: needs reformatting at %s %s",
		f.Path, plural(len(f.Lines), "line", "lines"), strings.Join(lines, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
