package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// File is a repository file as the checks see it.
type File struct {
	// Path is slash-separated and relative to the repository root.
	Path       string
	Executable bool
	// Regular is false for symlinks, submodules and anything else that is not
	// a plain file in the working tree.
	Regular bool
}

// Scanner provides access to the repository's files.
type Scanner struct {
	repoRoot string
	excludes []string

	mu        sync.Mutex
	listCache []string
	fileCache map[string]File
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExcludePaths drops the given paths from all listings (see FilterOptions.ExcludePaths).
func WithExcludePaths(prefixes []string) Option {
	return func(s *Scanner) {
		s.excludes = append(s.excludes, prefixes...)
	}
}

// New creates a new Scanner for the given repository root.
func New(repoRoot string, opts ...Option) *Scanner {
	s := &Scanner{
		repoRoot:  repoRoot,
		fileCache: make(map[string]File),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Abs returns the absolute path of a repo-relative file.
func (s *Scanner) Abs(rel string) string {
	return filepath.Join(s.repoRoot, filepath.FromSlash(rel))
}

// ListFiles returns tracked files plus untracked files that are not ignored,
// minus the configured excludes. The result is cached for the instance lifetime.
func (s *Scanner) ListFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listCache != nil {
		return s.listCache, nil
	}

	// git ls-files -z to avoid escaping issues
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z", "--cached", "--others", "--exclude-standard")
	cmd.Dir = s.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	seen := make(map[string]bool)
	files := []string{}
	for _, f := range strings.Split(strings.TrimSuffix(string(out), "\x00"), "\x00") {
		// --cached lists unmerged paths once per stage
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}

	s.listCache = FilterFiles(files, FilterOptions{ExcludePaths: s.excludes})
	if s.listCache == nil {
		s.listCache = []string{}
	}
	return s.listCache, nil
}

// ListFilesFiltered returns files matching the filter options.
func (s *Scanner) ListFilesFiltered(ctx context.Context, opts FilterOptions) ([]string, error) {
	all, err := s.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFiles(all, opts), nil
}

// Files returns the filtered listing with file metadata. Paths that no longer
// exist in the working tree (deleted but still tracked) are left out.
func (s *Scanner) Files(ctx context.Context, opts FilterOptions) ([]File, error) {
	paths, err := s.ListFilesFiltered(ctx, opts)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		f, ok, err := s.stat(p)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, f)
		}
	}
	return files, nil
}

// TextFiles is Files restricted to regular files whose content is not binary.
func (s *Scanner) TextFiles(ctx context.Context, opts FilterOptions) ([]File, error) {
	files, err := s.Files(ctx, opts)
	if err != nil {
		return nil, err
	}

	text := files[:0]
	for _, f := range files {
		if !f.Regular {
			continue
		}
		bin, err := s.isBinary(f.Path)
		if err != nil {
			return nil, err
		}
		if !bin {
			text = append(text, f)
		}
	}
	return text, nil
}

// ReadFile returns the content of a repo-relative file.
func (s *Scanner) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(s.Abs(rel)) //nolint:gosec // G304: path comes from git ls-files
}

func (s *Scanner) stat(rel string) (File, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.fileCache[rel]; ok {
		return f, true, nil
	}

	info, err := os.Lstat(s.Abs(rel))
	if os.IsNotExist(err) {
		return File{}, false, nil
	}
	if err != nil {
		return File{}, false, fmt.Errorf("stat %s: %w", rel, err)
	}

	f := File{
		Path:       rel,
		Regular:    info.Mode().IsRegular(),
		Executable: info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0,
	}
	s.fileCache[rel] = f
	return f, true, nil
}

// isBinary applies git's heuristic: a NUL byte in the first 8000 bytes.
func (s *Scanner) isBinary(rel string) (bool, error) {
	fh, err := os.Open(s.Abs(rel))
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", rel, err)
	}
	defer func() { _ = fh.Close() }()

	buf := make([]byte, 8000)
	n, err := io.ReadFull(fh, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, fmt.Errorf("reading %s: %w", rel, err)
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
