package scanner

import (
	"path"
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// ExcludePaths lists repo-relative paths to exclude, matched on segment
	// boundaries: "dpdk" excludes "dpdk" and "dpdk/x.c" but not "dpdkbuild/x.c".
	// An entry containing a wildcard is a glob instead ("lib/rte_vhost*/**").
	ExcludePaths []string

	// IncludeExtensions is a list of extensions to include (e.g., ".c").
	// If empty, all extensions are included.
	IncludeExtensions []string

	// IncludeGlobs keeps only files matching at least one pattern (see MatchGlob).
	// If empty, all files are kept.
	IncludeGlobs []string

	// ExcludeGlobs drops files matching any pattern (see MatchGlob).
	ExcludeGlobs []string
}

// FilterFiles applies the filter options to a list of file paths.
// It returns a new slice of strings, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	var filtered []string
	for _, p := range paths {
		if keep(p, opts) {
			filtered = append(filtered, p)
		}
	}

	sort.Strings(filtered)
	return filtered
}

func keep(p string, opts FilterOptions) bool {
	if underAnyPath(p, opts.ExcludePaths) {
		return false
	}
	if !shouldIncludeExtension(p, opts.IncludeExtensions) {
		return false
	}
	if len(opts.IncludeGlobs) > 0 && !matchAny(opts.IncludeGlobs, p) {
		return false
	}
	return !matchAny(opts.ExcludeGlobs, p)
}

// MatchGlob reports whether the slash-separated path p matches pattern.
//
// A pattern without a slash is matched against the base name ("*.c").
// "dir/**" matches everything below dir and "dir/**/*.c" matches by base
// name below dir. dir may itself hold wildcards ("lib/rte_vhost*/**"). Any
// other pattern is matched against the whole path with path.Match semantics
// ('*' does not cross '/').
func MatchGlob(pattern, p string) bool {
	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(p))
		return ok
	}
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		_, ok := matchLeading(prefix, p)
		return ok
	}
	if i := strings.Index(pattern, "/**/"); i >= 0 {
		rest, ok := matchLeading(pattern[:i], p)
		return ok && MatchGlob(pattern[i+4:], rest)
	}
	ok, _ := path.Match(pattern, p)
	return ok
}

// matchLeading matches prefix against as many leading segments of p as it
// has, and returns the remainder. There must be a remainder.
func matchLeading(prefix, p string) (string, bool) {
	n := strings.Count(prefix, "/") + 1
	segs := strings.SplitN(p, "/", n+1)
	if len(segs) <= n {
		return "", false
	}
	ok, _ := path.Match(prefix, strings.Join(segs[:n], "/"))
	return segs[n], ok
}

func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if MatchGlob(pattern, p) {
			return true
		}
	}
	return false
}

func underAnyPath(p string, entries []string) bool {
	for _, e := range entries {
		e = strings.TrimSuffix(e, "/")
		if e == "" {
			continue
		}
		if strings.ContainsAny(e, "*?[") {
			if MatchGlob(e, p) {
				return true
			}
			continue
		}
		if p == e || strings.HasPrefix(p, e+"/") {
			return true
		}
	}
	return false
}

// shouldIncludeExtension returns true if length is 0 OR path matches one extension.
func shouldIncludeExtension(p string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}
