// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"regexp"
	"strings"

	"github.com/bartekus/checkformat/internal/scanner"
)

var (
	cSources = []string{".c", ".h"}
	cppLike  = []string{".c", ".h", ".cpp", ".cc", ".cxx", ".hpp", ".hh"}
	patchExt = []string{"*.patch"}
)

// NewCommentStyle flags block comments that do not follow the kernel style
// and C++ line comments in C files.
func NewCommentStyle() *PatternCheck {
	return NewPatternCheck("comment-style",
		"Incorrect comment formatting detected",
		scanner.FilterOptions{IncludeExtensions: cSources},
		Rule{Pattern: regexp.MustCompile(`/\*[^ *\-]`), Message: "missing space after /*"},
		Rule{Pattern: regexp.MustCompile(`[^ ]\*/`), Message: "missing space before */"},
		Rule{Pattern: regexp.MustCompile(`^\*`), Message: "comment continuation must be indented"},
		Rule{Pattern: regexp.MustCompile(`^//|\s//`), Message: "use /* */ comments"},
	)
}

func NewSpacesBeforeTabs() *PatternCheck {
	return NewPatternCheck("spaces-before-tabs",
		"Spaces before tabs detected",
		scanner.FilterOptions{ExcludeGlobs: patchExt},
		Rule{Pattern: regexp.MustCompile(" \t")},
	)
}

func NewTrailingWhitespace() *PatternCheck {
	return NewPatternCheck("trailing-whitespace",
		"Trailing whitespace detected",
		scanner.FilterOptions{
			IncludeExtensions: append(append([]string{}, cppLike...), ".py", ".sh", ".md"),
		},
		Rule{Pattern: regexp.MustCompile(`[ \t]$`)},
	)
}

// NewForbiddenFunctions flags calls to unbounded or error-swallowing libc
// functions in C sources.
func NewForbiddenFunctions(names []string) *PatternCheck {
	var rules []Rule
	if len(names) > 0 {
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = regexp.QuoteMeta(n)
		}
		rules = append(rules, Rule{Pattern: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)})
	}
	return NewPatternCheck("forbidden-functions",
		"Found use of "+strings.Join(names, ", ")+" which are not allowed",
		scanner.FilterOptions{IncludeExtensions: []string{".c"}},
		rules...,
	)
}

// NewCUnitStyle requires the wrapped assertion in unit tests.
func NewCUnitStyle() *PatternCheck {
	return NewPatternCheck("cunit-style",
		"Found CU_ASSERT_FATAL, please use SPDK_CU_ASSERT_FATAL instead",
		scanner.FilterOptions{IncludeGlobs: []string{"test/**"}, IncludeExtensions: cSources},
		Rule{Pattern: regexp.MustCompile(`(?:^|[^A-Za-z0-9_])CU_ASSERT_FATAL\b`)},
	)
}

// NewIncludeStyle rejects angle-bracket includes of the project's own public
// headers.
func NewIncludeStyle(publicDir string) *PatternCheck {
	return NewPatternCheck("include-style",
		`Public headers must be included with quotes: #include "`+publicDir+`/..."`,
		scanner.FilterOptions{IncludeExtensions: cSources},
		Rule{Pattern: regexp.MustCompile(`^\s*#\s*include\s*<` + regexp.QuoteMeta(publicDir) + `/`)},
	)
}
