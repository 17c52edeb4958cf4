// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
)

// defaultPosixHeaders is used when the repository carries no header list.
var defaultPosixHeaders = []string{
	"aio.h", "arpa/inet.h", "assert.h", "complex.h", "cpio.h", "ctype.h",
	"dirent.h", "dlfcn.h", "errno.h", "fcntl.h", "fenv.h", "float.h",
	"fmtmsg.h", "fnmatch.h", "ftw.h", "glob.h", "grp.h", "iconv.h",
	"inttypes.h", "iso646.h", "langinfo.h", "libgen.h", "limits.h",
	"locale.h", "math.h", "monetary.h", "mqueue.h", "ndbm.h", "net/if.h",
	"netdb.h", "netinet/in.h", "netinet/tcp.h", "nl_types.h", "poll.h",
	"pthread.h", "pwd.h", "regex.h", "sched.h", "search.h", "semaphore.h",
	"setjmp.h", "signal.h", "spawn.h", "stdarg.h", "stdbool.h", "stddef.h",
	"stdint.h", "stdio.h", "stdlib.h", "string.h", "strings.h", "stropts.h",
	"sys/ipc.h", "sys/mman.h", "sys/msg.h", "sys/resource.h", "sys/select.h",
	"sys/sem.h", "sys/shm.h", "sys/socket.h", "sys/stat.h", "sys/statvfs.h",
	"sys/time.h", "sys/times.h", "sys/types.h", "sys/uio.h", "sys/un.h",
	"sys/utsname.h", "sys/wait.h", "syslog.h", "tar.h", "termios.h",
	"tgmath.h", "time.h", "trace.h", "ulimit.h", "unistd.h", "utime.h",
	"utmpx.h", "wchar.h", "wctype.h", "wordexp.h",
}

// PosixIncludes requires POSIX system headers to come in through the
// project's single standard-includes header.
type PosixIncludes struct {
	listFile string
	stdinc   string
}

func NewPosixIncludes(listFile, stdinc string) *PosixIncludes {
	return &PosixIncludes{listFile: listFile, stdinc: stdinc}
}

func (c *PosixIncludes) Name() string { return "posix-includes" }

func (c *PosixIncludes) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	headers, err := c.headers(deps.Scanner)
	if err != nil {
		return runner.Errorf(c.Name(), "%v", err)
	}

	filter := scanner.FilterOptions{
		ExcludeGlobs: []string{"*.patch", "include/linux/**"},
	}
	for _, p := range []string{c.stdinc, c.listFile} {
		if p != "" {
			filter.ExcludeGlobs = append(filter.ExcludeGlobs, p)
		}
	}

	inner := NewPatternCheck(c.Name(),
		"POSIX includes must go through "+c.stdinc+" only",
		filter,
		Rule{Pattern: includeAnyRE(headers)},
	)
	return inner.Run(ctx, deps)
}

// headers reads one header per line; "<aio.h>" and "aio.h" are both accepted.
func (c *PosixIncludes) headers(s *scanner.Scanner) ([]string, error) {
	if c.listFile == "" {
		return defaultPosixHeaders, nil
	}
	data, err := s.ReadFile(c.listFile)
	if errors.Is(err, os.ErrNotExist) {
		return defaultPosixHeaders, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.listFile, err)
	}

	var headers []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		headers = append(headers, strings.Trim(line, "<>"))
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("%s lists no headers", c.listFile)
	}
	return headers, nil
}

func includeAnyRE(headers []string) *regexp.Regexp {
	quoted := make([]string, len(headers))
	for i, h := range headers {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return regexp.MustCompile(`^\s*#\s*include\s*<(?:` + strings.Join(quoted, "|") + `)>`)
}
