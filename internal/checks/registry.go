// SPDX-License-Identifier: AGPL-3.0-or-later

// Package checks holds every check the tool runs and the order they run in.
package checks

import (
	"github.com/bartekus/checkformat/internal/config"
	"github.com/bartekus/checkformat/internal/runner"
)

// All returns every check in execution order.
func All(cfg config.Config) []runner.Checker {
	return []runner.Checker{
		NewPermissions(),
		NewAstyle(cfg.Tools.AstyleOptions),
		NewCommentStyle(),
		NewSpacesBeforeTabs(),
		NewTrailingWhitespace(),
		NewForbiddenFunctions(cfg.Patterns.ForbiddenFunctions),
		NewCUnitStyle(),
		NewEOFNewline(),
		NewPosixIncludes(cfg.Patterns.PosixList, cfg.Patterns.StdincHeader),
		NewNaming(),
		NewIncludeStyle(cfg.Patterns.PublicIncludeDir),
		NewPycodestyle(cfg.Tools.PycodestyleArgs),
		NewShfmt(cfg.Tools.ShfmtArgs),
		NewShellcheck(cfg.Tools.ShellcheckExclude, cfg.Tools.ShellcheckApply),
		NewChangelog(),
	}
}

// Enabled returns All minus the checks listed in cfg.Skip.
func Enabled(cfg config.Config) []runner.Checker {
	var out []runner.Checker
	for _, c := range All(cfg) {
		if !cfg.Skipped(c.Name()) {
			out = append(out, c)
		}
	}
	return out
}
