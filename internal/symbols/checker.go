// SPDX-License-Identifier: AGPL-3.0-or-later

// Package symbols enforces that functions carrying the reserved public-API
// prefix are both declared in a public header and exported from their
// library's map file.
package symbols

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bartekus/checkformat/internal/vcs"
)

// DiffSource yields per-file added/removed lines between two revisions.
type DiffSource interface {
	Diff(ctx context.Context, base, head string, keep func(path string) bool) ([]vcs.FileDiff, error)
}

// Options configures where symbols are looked for.
type Options struct {
	Prefix           string
	LibraryRoots     []string
	SourceExtensions []string
	HeaderRoots      []string
	// BlankMap is used for directories without a map file of their own.
	BlankMap string
}

// Violation is a reserved-prefix symbol that is not exported and/or not declared.
type Violation struct {
	Symbol      string
	File        string
	MapFile     string
	NotExported bool
	NotDeclared bool
}

func (v Violation) String() string {
	var reasons []string
	if v.NotExported {
		reasons = append(reasons, fmt.Sprintf("not exported in %s", v.MapFile))
	}
	if v.NotDeclared {
		reasons = append(reasons, "not declared in a public header")
	}
	return fmt.Sprintf("%s: function %s is %s", v.File, v.Symbol, strings.Join(reasons, " and "))
}

// Checker correlates defined, declared and exported symbols.
type Checker struct {
	root    string
	diffs   DiffSource
	opts    Options
	extract *Extractor
}

// NewChecker creates a checker reading map files below root.
func NewChecker(root string, diffs DiffSource, opts Options) *Checker {
	return &Checker{
		root:    root,
		diffs:   diffs,
		opts:    opts,
		extract: NewExtractor(opts.Prefix),
	}
}

// Check returns the violations introduced between base and head, sorted by
// file then symbol.
func (c *Checker) Check(ctx context.Context, base, head string) ([]Violation, error) {
	declared, err := c.declaredSymbols(ctx, base, head)
	if err != nil {
		return nil, err
	}

	sources, err := c.diffs.Diff(ctx, base, head, c.isLibrarySource)
	if err != nil {
		return nil, fmt.Errorf("diffing library sources: %w", err)
	}

	byDir := make(map[string][]vcs.FileDiff)
	var dirs []string
	for _, fd := range sources {
		dir := path.Dir(fd.Path)
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], fd)
	}
	sort.Strings(dirs)

	var violations []Violation
	for _, dir := range dirs {
		vs, err := c.checkDir(dir, byDir[dir], declared)
		if err != nil {
			return nil, err
		}
		violations = append(violations, vs...)
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		return violations[i].Symbol < violations[j].Symbol
	})
	return violations, nil
}

func (c *Checker) declaredSymbols(ctx context.Context, base, head string) (map[string]bool, error) {
	headers, err := c.diffs.Diff(ctx, base, head, c.isPublicHeader)
	if err != nil {
		return nil, fmt.Errorf("diffing public headers: %w", err)
	}

	declared := make(map[string]bool)
	for _, fd := range headers {
		// only pure additions count; a declaration edited in place is
		// not re-captured unless the whole line is re-added
		for _, line := range fd.Added {
			if name, ok := c.extract.Declared(line); ok {
				declared[name] = true
			}
		}
	}
	return declared, nil
}

func (c *Checker) checkDir(dir string, files []vcs.FileDiff, declared map[string]bool) ([]Violation, error) {
	mapFile, exported, err := c.exportedSymbols(dir)
	if err != nil {
		return nil, err
	}

	var out []Violation
	for _, fd := range files {
		// A definition that is removed and re-added in the same file (moved,
		// or its signature line rewritten) is not treated as new.
		removed := make(map[string]bool)
		for _, line := range fd.Removed {
			if name, ok := c.extract.Defined(line); ok {
				removed[name] = true
			}
		}

		seen := make(map[string]bool)
		for _, line := range fd.Added {
			name, ok := c.extract.Defined(line)
			if !ok || removed[name] || seen[name] {
				continue
			}
			seen[name] = true

			v := Violation{
				Symbol:      name,
				File:        fd.Path,
				MapFile:     mapFile,
				NotExported: !exported[name],
				NotDeclared: !declared[name],
			}
			if v.NotExported || v.NotDeclared {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// exportedSymbols reads every *.map file in dir, or the blank map when there
// is none. It returns the map file name used for diagnostics.
func (c *Checker) exportedSymbols(dir string) (string, map[string]bool, error) {
	entries, err := os.ReadDir(filepath.Join(c.root, filepath.FromSlash(dir)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var maps []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".map") {
			maps = append(maps, path.Join(dir, e.Name()))
		}
	}
	if len(maps) == 0 {
		maps = []string{c.opts.BlankMap}
	}

	exported := make(map[string]bool)
	for _, m := range maps {
		f, err := os.Open(filepath.Join(c.root, filepath.FromSlash(m)))
		if errors.Is(err, os.ErrNotExist) {
			// a missing blank map exports nothing, same as an empty one
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("opening map file %s: %w", m, err)
		}
		syms, err := c.extract.ParseMap(f)
		_ = f.Close()
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", m, err)
		}
		for s := range syms {
			exported[s] = true
		}
	}
	return strings.Join(maps, ", "), exported, nil
}

func (c *Checker) isPublicHeader(p string) bool {
	return strings.HasSuffix(p, ".h") && underAny(p, c.opts.HeaderRoots)
}

func (c *Checker) isLibrarySource(p string) bool {
	if !underAny(p, c.opts.LibraryRoots) {
		return false
	}
	for _, ext := range c.opts.SourceExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

func underAny(p string, roots []string) bool {
	for _, root := range roots {
		root = strings.TrimSuffix(root, "/")
		if strings.HasPrefix(p, root+"/") {
			return true
		}
	}
	return false
}
