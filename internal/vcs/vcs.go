// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vcs reads the repository history the checks compare against:
// revision resolution, changed paths and per-file added/removed lines.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNoCommits is returned when HEAD does not point at a commit yet.
var ErrNoCommits = errors.New("repository has no commits")

// FileDiff holds the lines a change added to and removed from one file.
type FileDiff struct {
	Path    string
	Added   []string
	Removed []string
}

// Repo wraps a go-git repository opened at a working-tree root.
type Repo struct {
	repo *git.Repository
}

// Open opens the repository whose working tree is rooted at root.
func Open(root string) (*Repo, error) {
	r, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}
	return &Repo{repo: r}, nil
}

// Head returns the commit hash HEAD points to.
func (r *Repo) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoCommits
		}
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// FirstParent returns the first parent of rev. ok is false for a root commit.
func (r *Repo) FirstParent(rev string) (parent string, ok bool, err error) {
	c, err := r.commit(rev)
	if err != nil {
		return "", false, err
	}
	if c.NumParents() == 0 {
		return "", false, nil
	}
	return c.ParentHashes[0].String(), true, nil
}

// ChangedFiles lists the paths that differ between two commits, sorted.
// A deleted file is reported under its old path. An empty base compares
// against the empty tree.
func (r *Repo) ChangedFiles(ctx context.Context, base, head string) ([]string, error) {
	changes, err := r.changes(ctx, base, head)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(changes))
	for _, ch := range changes {
		paths = append(paths, changePath(ch))
	}
	sort.Strings(paths)
	return paths, nil
}

// Diff returns added and removed lines per file between base and head for
// every changed path accepted by keep. Binary files are left out.
func (r *Repo) Diff(ctx context.Context, base, head string, keep func(path string) bool) ([]FileDiff, error) {
	changes, err := r.changes(ctx, base, head)
	if err != nil {
		return nil, err
	}

	var diffs []FileDiff
	for _, ch := range changes {
		p := changePath(ch)
		if keep != nil && !keep(p) {
			continue
		}

		patch, err := ch.PatchContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", p, err)
		}
		for _, fp := range patch.FilePatches() {
			if fp.IsBinary() {
				continue
			}
			diffs = append(diffs, collectLines(p, fp.Chunks()))
		}
	}

	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })
	return diffs, nil
}

// WorktreeChanges lists staged and unstaged modifications of tracked files.
// Untracked files are not reported.
func (r *Repo) WorktreeChanges() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}

	var paths []string
	for p, st := range status {
		if st.Staging == git.Untracked && st.Worktree == git.Untracked {
			continue
		}
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Repo) commit(rev string) (*object.Commit, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("resolving %s: %w", rev, ErrNoCommits)
		}
		return nil, fmt.Errorf("resolving %s: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*h)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", h, err)
	}
	return c, nil
}

func (r *Repo) changes(ctx context.Context, base, head string) (object.Changes, error) {
	from, err := r.tree(base)
	if err != nil {
		return nil, err
	}
	to, err := r.tree(head)
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTreeWithOptions(ctx, from, to, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", base, head, err)
	}
	return changes, nil
}

// tree loads the tree of rev; an empty rev is the empty tree.
func (r *Repo) tree(rev string) (*object.Tree, error) {
	if rev == "" {
		return &object.Tree{}, nil
	}
	c, err := r.commit(rev)
	if err != nil {
		return nil, err
	}
	t, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree of %s: %w", rev, err)
	}
	return t, nil
}

func changePath(ch *object.Change) string {
	if ch.To.Name != "" {
		return ch.To.Name
	}
	return ch.From.Name
}

func collectLines(p string, chunks []fdiff.Chunk) FileDiff {
	fd := FileDiff{Path: p}
	for _, c := range chunks {
		content := c.Content()
		if content == "" {
			continue
		}
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		switch c.Type() {
		case fdiff.Add:
			fd.Added = append(fd.Added, lines...)
		case fdiff.Delete:
			fd.Removed = append(fd.Removed, lines...)
		}
	}
	return fd
}
