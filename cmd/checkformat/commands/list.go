package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/checkformat/cmd/checkformat/internal/clierr"
	"github.com/bartekus/checkformat/internal/config"
	"github.com/bartekus/checkformat/internal/projectroot"
)

func newListCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List checks in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := listConfig(opts)
			if err != nil {
				return clierr.Wrap(clierr.ExitSetup, "loading config", err)
			}
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"checks": checkNames(cfg), "skipped": cfg.Skip})
			}
			for _, name := range checkNames(cfg) {
				_, _ = fmt.Fprintln(out, describeSkip(cfg, name))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// listConfig loads the repository config; outside a repository the
// defaults are listed.
func listConfig(opts *options) (config.Config, error) {
	dir := opts.dir
	if dir == "" {
		dir = "."
	}
	root, err := projectroot.Find(dir)
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(root, opts.configPath)
}
