package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/checkformat/internal/config"
	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
	"github.com/bartekus/checkformat/internal/testutil/gitrepo"
	"github.com/bartekus/checkformat/internal/vcs"
)

func newDeps(t *testing.T, g *gitrepo.Repo) *runner.Deps {
	t.Helper()
	cfg := config.Default()
	repo, err := vcs.Open(g.Dir)
	require.NoError(t, err)
	return &runner.Deps{
		RepoRoot: g.Dir,
		Scanner:  scanner.New(g.Dir, scanner.WithExcludePaths(cfg.Exclude)),
		Repo:     repo,
		Config:   cfg,
	}
}

func run(t *testing.T, c runner.Checker, g *gitrepo.Repo) runner.Result {
	t.Helper()
	return c.Run(context.Background(), newDeps(t, g))
}

func TestPermissions(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/ok.c", "int x;\n")
	g.WriteExec("lib/exec.c", "int x;\n")
	g.WriteExec("scripts/good.sh", "#!/usr/bin/env bash\necho hi\n")
	g.Write("scripts/noexec.sh", "#!/bin/bash\necho hi\n")
	g.WriteExec("scripts/nobang.py", "print('hi')\n")
	g.Write("scripts/plain.py", "print('hi')\n")
	g.WriteExec("Makefile", "all:\n")

	res := run(t, NewPermissions(), g)

	assert.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{
		"Makefile is marked executable but is a code file.",
		"lib/exec.c is marked executable but is a code file.",
		"scripts/nobang.py is marked executable but does not start with a shebang.",
		"scripts/noexec.sh is not marked executable but starts with a shebang.",
	}, res.Diagnostics)
}

func TestPermissions_Clean(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/ok.c", "int x;\n")
	g.WriteExec("run.sh", "#!/bin/sh\n")
	g.Write("empty", "")

	res := run(t, NewPermissions(), g)
	assert.Equal(t, runner.StatusPass, res.Status)
	assert.Empty(t, res.Diagnostics)
}

func TestCommentStyle(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/a.c", "/* ok */\n"+
		"/*bad */\n"+
		"/**\n"+
		" * fine\n"+
		" */\n"+
		"/* bad*/\n"+
		"* bad\n"+
		"int x; // bad\n"+
		"/*-\n")
	g.Write("lib/a.py", "/*bad */\n")

	res := run(t, NewCommentStyle(), g)

	require.Equal(t, runner.StatusFail, res.Status)
	require.Len(t, res.Diagnostics, 4)
	assert.Contains(t, res.Diagnostics[0], "lib/a.c:2: /*bad */")
	assert.Contains(t, res.Diagnostics[1], "lib/a.c:6: /* bad*/")
	assert.Contains(t, res.Diagnostics[2], "lib/a.c:7: * bad")
	assert.Contains(t, res.Diagnostics[3], "lib/a.c:8: int x; // bad")
}

func TestSpacesBeforeTabs(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("a.c", "int x;\n \tint y;\n\tint z;\n")
	g.Write("fix.patch", " \t+ anything\n")

	res := run(t, NewSpacesBeforeTabs(), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{"a.c:2:  \tint y;"}, res.Diagnostics)
}

func TestTrailingWhitespace(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("a.c", "int x; \nint y;\n")
	g.Write("b.py", "x = 1\t\n")
	g.Write("notes.txt", "trailing \n")

	res := run(t, NewTrailingWhitespace(), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{"a.c:1: int x; ", "b.py:1: x = 1\t"}, res.Diagnostics)
}

func TestForbiddenFunctions(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/a.c", "x = atoi(s);\n"+
		"y = my_atoi(s);\n"+
		"spdk_strcpy(a, b);\n"+
		"sprintf(buf, \"%d\", 1);\n")
	g.Write("lib/a.h", "x = atoi(s);\n")

	res := run(t, NewForbiddenFunctions(config.Default().Patterns.ForbiddenFunctions), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{
		"lib/a.c:1: x = atoi(s);",
		"lib/a.c:4: sprintf(buf, \"%d\", 1);",
	}, res.Diagnostics)
}

func TestForbiddenFunctions_EmptyListNeverMatches(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/a.c", "x = atoi(s);\n")

	res := run(t, NewForbiddenFunctions(nil), g)
	assert.Equal(t, runner.StatusPass, res.Status)
}

func TestCUnitStyle(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("test/unit/a_ut.c", "CU_ASSERT_FATAL(x);\n\tSPDK_CU_ASSERT_FATAL(y);\n")
	g.Write("lib/a.c", "CU_ASSERT_FATAL(x);\n")

	res := run(t, NewCUnitStyle(), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{"test/unit/a_ut.c:1: CU_ASSERT_FATAL(x);"}, res.Diagnostics)
}

func TestIncludeStyle(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/a.c", "#include \"spdk/env.h\"\n#include <spdk/log.h>\n# include <stdio.h>\n")

	res := run(t, NewIncludeStyle("spdk"), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{"lib/a.c:2: #include <spdk/log.h>"}, res.Diagnostics)
}

func TestEOFNewline(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("a.c", "int x;")
	g.Write("b.c", "int x;\n")
	g.Write("empty.c", "")
	g.Write("x.patch", "no newline")

	res := run(t, NewEOFNewline(), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{"a.c: missing newline at end of file"}, res.Diagnostics)
}

func TestPosixIncludes(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("scripts/posix.txt", "<stdio.h>\n<sys/types.h>\n")
	g.Write("include/spdk/stdinc.h", "#include <stdio.h>\n")
	g.Write("include/linux/virtio.h", "#include <stdio.h>\n")
	g.Write("lib/a.c", "#include <stdio.h>\n#include <rte_config.h>\n#include <sys/types.h>\n#include \"spdk/stdinc.h\"\n")
	g.Write("lib/b.c", "#include <unistd.h>\n")

	res := run(t, NewPosixIncludes("scripts/posix.txt", "include/spdk/stdinc.h"), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{
		"lib/a.c:1: #include <stdio.h>",
		"lib/a.c:3: #include <sys/types.h>",
	}, res.Diagnostics)
}

func TestPosixIncludes_BuiltinList(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("lib/b.c", "#include <unistd.h>\n")

	res := run(t, NewPosixIncludes("scripts/posix.txt", "include/spdk/stdinc.h"), g)

	require.Equal(t, runner.StatusFail, res.Status)
	assert.Equal(t, []string{"lib/b.c:1: #include <unistd.h>"}, res.Diagnostics)
}

func TestPatternChecks_SkipExcludedAndBinary(t *testing.T) {
	g := gitrepo.New(t)
	g.Write("dpdk/lib/a.c", "x = atoi(s);\n")
	g.Write("lib/blob.c", "atoi\x00binary\n")

	res := run(t, NewForbiddenFunctions([]string{"atoi"}), g)
	assert.Equal(t, runner.StatusPass, res.Status)
}

func TestEnabled_HonoursSkip(t *testing.T) {
	cfg := config.Default()
	cfg.Skip = []string{"astyle", "changelog"}

	var names []string
	for _, c := range Enabled(cfg) {
		names = append(names, c.Name())
	}
	assert.NotContains(t, names, "astyle")
	assert.NotContains(t, names, "changelog")
	assert.Len(t, names, len(All(cfg))-2)
}

func TestAll_Order(t *testing.T) {
	var names []string
	for _, c := range All(config.Default()) {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		"permissions", "astyle", "comment-style", "spaces-before-tabs",
		"trailing-whitespace", "forbidden-functions", "cunit-style", "eof-newline",
		"posix-includes", "naming-conventions", "include-style", "pycodestyle",
		"shfmt", "shellcheck", "changelog",
	}, names)
}
