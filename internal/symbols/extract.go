// SPDX-License-Identifier: AGPL-3.0-or-later

package symbols

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Extractor pulls reserved-prefix symbol names out of single source lines.
// The name and its opening parenthesis must share a line.
type Extractor struct {
	declared *regexp.Regexp
	defined  *regexp.Regexp
	exported *regexp.Regexp
}

// NewExtractor builds the three line patterns for prefix.
func NewExtractor(prefix string) *Extractor {
	q := regexp.QuoteMeta(prefix)
	name := `(` + q + `[A-Za-z0-9_]*)`
	return &Extractor{
		// the last prefixed identifier that is followed by '('
		declared: regexp.MustCompile(`^.*\b` + name + `\(`),
		// column 0, optional return type on the same line; the argument
		// list may continue on the following lines
		defined:  regexp.MustCompile(`^(?:[A-Za-z_][^(;=]*?[\s*])?` + name + `\(`),
		exported: regexp.MustCompile(`^\s*` + name + `;`),
	}
}

// Declared extracts a symbol from a public header line.
func (e *Extractor) Declared(line string) (string, bool) {
	return submatch(e.declared, line)
}

// Defined extracts a symbol from an implementation file line. Lines that
// start with "static" never define a public symbol.
func (e *Extractor) Defined(line string) (string, bool) {
	if strings.HasPrefix(line, "static") {
		return "", false
	}
	return submatch(e.defined, line)
}

// Exported extracts a symbol from a map file line such as "\tspdk_foo;".
func (e *Extractor) Exported(line string) (string, bool) {
	return submatch(e.exported, line)
}

// ParseMap collects every exported symbol of a map file.
func (e *Extractor) ParseMap(r io.Reader) (map[string]bool, error) {
	out := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if name, ok := e.Exported(sc.Text()); ok {
			out[name] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return out, nil
}

func submatch(re *regexp.Regexp, line string) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
