package vcs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/checkformat/internal/testutil/gitrepo"
	"github.com/bartekus/checkformat/internal/vcs"
)

func TestRepo_HeadAndParent(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("README.md", "hello\n")
	g.Commit("first")
	first := g.Git("rev-parse", "HEAD")
	g.Write("README.md", "hello again\n")
	g.Commit("second")
	second := g.Git("rev-parse", "HEAD")

	repo, err := vcs.Open(g.Dir)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, second, head)

	parent, ok, err := repo.FirstParent(head)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, parent)

	_, ok, err = repo.FirstParent(first)
	require.NoError(t, err)
	assert.False(t, ok, "root commit has no parent")
}

func TestRepo_HeadWithoutCommits(t *testing.T) {
	g := gitrepo.New(t)
	repo, err := vcs.Open(g.Dir)
	require.NoError(t, err)

	_, err = repo.Head()
	assert.ErrorIs(t, err, vcs.ErrNoCommits)
}

func TestRepo_DiffAndChangedFiles(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/foo/foo.c", "int\nspdk_foo_old(void)\n{\n}\n")
	g.Write("docs/a.md", "a\n")
	g.Commit("base")
	base := g.Git("rev-parse", "HEAD")

	g.Write("lib/foo/foo.c", "int\nspdk_foo_new(void)\n{\n}\n")
	g.Write("lib/foo/bar.c", "void\nspdk_bar(int x)\n{\n}\n")
	g.Remove("docs/a.md")
	g.Commit("head")
	head := g.Git("rev-parse", "HEAD")

	repo, err := vcs.Open(g.Dir)
	require.NoError(t, err)
	ctx := context.Background()

	changed, err := repo.ChangedFiles(ctx, base, head)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/a.md", "lib/foo/bar.c", "lib/foo/foo.c"}, changed)

	diffs, err := repo.Diff(ctx, base, head, func(p string) bool { return strings.HasSuffix(p, ".c") })
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	assert.Equal(t, "lib/foo/bar.c", diffs[0].Path)
	assert.Contains(t, diffs[0].Added, "spdk_bar(int x)")
	assert.Empty(t, diffs[0].Removed)

	assert.Equal(t, "lib/foo/foo.c", diffs[1].Path)
	assert.Equal(t, []string{"spdk_foo_new(void)"}, diffs[1].Added)
	assert.Equal(t, []string{"spdk_foo_old(void)"}, diffs[1].Removed)
}

func TestRepo_WorktreeChanges(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("a.txt", "a\n")
	g.Write("b.txt", "b\n")
	g.Commit("base")

	g.Write("a.txt", "changed\n")
	g.Write("c.txt", "untracked\n")
	g.Write("b.txt", "staged\n")
	g.Git("add", "b.txt")

	repo, err := vcs.Open(g.Dir)
	require.NoError(t, err)

	changed, err := repo.WorktreeChanges()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, changed)
}

func TestRepo_ChangedFilesFromEmptyTree(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("b.txt", "b\n")
	g.Write("a/a.txt", "a\n")
	g.Commit("root")

	repo, err := vcs.Open(g.Dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)

	files, err := repo.ChangedFiles(context.Background(), "", head)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/a.txt", "b.txt"}, files)
}
