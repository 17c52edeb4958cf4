// Package gitrepo builds throwaway git repositories for tests.
package gitrepo

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Repo is a git working tree under t.TempDir().
type Repo struct {
	t   *testing.T
	Dir string
}

// New initialises an empty repository with a committer identity.
func New(t *testing.T) *Repo {
	t.Helper()
	r := &Repo{t: t, Dir: t.TempDir()}
	r.Git("init", "-q")
	r.Git("config", "user.email", "test@example.com")
	r.Git("config", "user.name", "Test User")
	r.Git("config", "commit.gpgsign", "false")
	return r
}

// Git runs git in the repository and returns its trimmed stdout.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// Write creates or replaces a file with mode 0644.
func (r *Repo) Write(path, content string) {
	r.t.Helper()
	r.write(path, content, 0o644)
}

// WriteExec creates or replaces a file with mode 0755.
func (r *Repo) WriteExec(path, content string) {
	r.t.Helper()
	r.write(path, content, 0o755)
}

// Remove deletes a file from the working tree.
func (r *Repo) Remove(path string) {
	r.t.Helper()
	if err := os.Remove(filepath.Join(r.Dir, path)); err != nil {
		r.t.Fatalf("remove %s: %v", path, err)
	}
}

// Commit stages everything and records a commit.
func (r *Repo) Commit(msg string) {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "-q", "--allow-empty", "-m", msg)
}

func (r *Repo) write(path, content string, mode os.FileMode) {
	r.t.Helper()
	full := filepath.Join(r.Dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), mode); err != nil {
		r.t.Fatalf("write %s: %v", path, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(full, mode); err != nil {
		r.t.Fatalf("chmod %s: %v", path, err)
	}
}
