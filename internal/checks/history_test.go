package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/testutil/gitrepo"
)

func TestNaming_NoCommitsSkips(t *testing.T) {
	g := gitrepo.New(t)
	res := run(t, NewNaming(), g)
	assert.Equal(t, runner.StatusSkip, res.Status)
}

func TestNaming_RootCommitSkips(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/foo/foo.c", "int\nspdk_foo(void)\n{\n}\n")
	g.Commit("root")

	res := run(t, NewNaming(), g)
	assert.Equal(t, runner.StatusSkip, res.Status)
	assert.Contains(t, res.Note, "no parent")
}

func TestNaming_ReportsUnexportedSymbol(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/foo/spdk_foo.map", "{\n\tglobal:\n\tspdk_foo_old;\n\tlocal: *;\n};\n")
	g.Write("include/spdk/foo.h", "int spdk_foo_old(void);\n")
	g.Write("lib/foo/foo.c", "int\nspdk_foo_old(void)\n{\n}\n")
	g.Commit("base")

	g.Write("include/spdk/foo.h", "int spdk_foo_old(void);\nint spdk_foo_new(void);\n")
	g.Write("lib/foo/foo.c", "int\nspdk_foo_old(void)\n{\n}\nint spdk_foo_new(void)\n{\n}\nstatic int spdk_foo_helper(void)\n{\n}\n")
	g.Commit("head")

	res := run(t, NewNaming(), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{
		"lib/foo/foo.c: function spdk_foo_new is not exported in lib/foo/spdk_foo.map",
	}, res.Diagnostics)
	assert.Contains(t, res.Note, "spdk_ prefix")
}

func TestNaming_ExportedAndDeclaredPasses(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/foo/spdk_foo.map", "{\n\tglobal:\n\tlocal: *;\n};\n")
	g.Write("lib/foo/foo.c", "")
	g.Commit("base")

	g.Write("lib/foo/spdk_foo.map", "{\n\tglobal:\n\tspdk_foo_new;\n\tlocal: *;\n};\n")
	g.Write("include/spdk/foo.h", "int spdk_foo_new(void);\n")
	g.Write("lib/foo/foo.c", "int spdk_foo_new(void)\n{\n}\n")
	g.Commit("head")

	res := run(t, NewNaming(), g)
	assert.Equal(t, runner.StatusPass, res.Status)
}

func TestChangelog_RemindsFromHeadCommit(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("README.md", "x\n")
	g.Commit("base")
	g.Write("include/spdk/nvme.h", "int spdk_nvme_x(void);\n")
	g.Write("lib/nvme/nvme.c", "int x;\n")
	g.Commit("head")

	res := run(t, NewChangelog(), g)

	assert.Equal(t, runner.StatusPass, res.Status)
	assert.Equal(t, "include/spdk/nvme.h was modified. Consider updating CHANGELOG.md.", res.Note)
}

func TestChangelog_SilentWhenChangelogTouched(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("README.md", "x\n")
	g.Commit("base")
	g.Write("scripts/rpc.py", "print()\n")
	g.Write("CHANGELOG.md", "## v1\n")
	g.Commit("head")

	res := run(t, NewChangelog(), g)

	assert.Equal(t, runner.StatusPass, res.Status)
	assert.Empty(t, res.Note)
}

func TestChangelog_PrefersWorktreeChanges(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("etc/app.conf", "a\n")
	g.Write("include/spdk/nvme.h", "a\n")
	g.Commit("base")
	g.Write("include/spdk/nvme.h", "b\n")
	g.Commit("head")

	g.Write("etc/app.conf", "b\n")

	res := run(t, NewChangelog(), g)

	assert.Equal(t, runner.StatusPass, res.Status)
	assert.Equal(t, "etc/app.conf was modified. Consider updating CHANGELOG.md.", res.Note)
}

func TestChangelog_RootCommit(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("include/spdk/nvme.h", "a\n")
	g.Commit("root")

	res := run(t, NewChangelog(), g)

	assert.Equal(t, runner.StatusPass, res.Status)
	assert.Contains(t, res.Note, "include/spdk/nvme.h was modified")
}

func TestNaming_ReportsWrappedArgumentDefinition(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/foo/spdk_foo.map", "{\n\tglobal:\n\tlocal: *;\n};\n")
	g.Write("lib/foo/foo.c", "")
	g.Commit("base")

	g.Write("lib/foo/foo.c", "int\nspdk_foo_new(struct spdk_foo *foo,\n\t     int flags)\n{\n\treturn 0;\n}\n")
	g.Commit("head")

	res := run(t, NewNaming(), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{
		"lib/foo/foo.c: function spdk_foo_new is not exported in lib/foo/spdk_foo.map and not declared in a public header",
	}, res.Diagnostics)
}
