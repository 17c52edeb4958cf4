// SPDX-License-Identifier: AGPL-3.0-or-later

/*
checkformat - style and convention checks for C/C++/Python/Bash source trees.
It runs a fixed sequence of pattern scans, external formatters and a symbol
export consistency check, and exits non-zero when any of them fails.

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options are the flags shared by every command that runs checks.
type options struct {
	dir        string
	configPath string
	verbose    bool
	fix        bool
	reportPath string
}

// NewRootCmd constructs the checkformat root Cobra command. Run without a
// subcommand it executes every enabled check.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("CHECKFORMAT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:           "checkformat",
		Short:         "Check formatting and coding conventions of the repository",
		Long:          "checkformat runs every style and convention check over the current repository and reports one section per check.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChecks(cmd, opts, nil)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.dir, "chdir", "C", "", "run as if started in `dir`")
	pf.StringVar(&opts.configPath, "config", "", "config file (default <repo>/.checkformat.yaml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.fix, "fix", false, "let formatters with an apply mode rewrite files")
	pf.StringVar(&opts.reportPath, "report", "", "write a JSON report to `path`")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of checkformat",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checkformat version %s\n", version)
		},
	})
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newRunCmd(opts))

	return cmd
}
