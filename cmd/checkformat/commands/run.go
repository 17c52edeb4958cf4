package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/checkformat/cmd/checkformat/internal/clierr"
	"github.com/bartekus/checkformat/internal/checks"
	"github.com/bartekus/checkformat/internal/config"
	"github.com/bartekus/checkformat/internal/projectroot"
	"github.com/bartekus/checkformat/internal/report"
	"github.com/bartekus/checkformat/internal/runner"
	"github.com/bartekus/checkformat/internal/scanner"
	"github.com/bartekus/checkformat/internal/vcs"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <check>...",
		Short: "Run the named checks only, in the given order",
		Long:  "Run the named checks, including ones the config file skips. See 'checkformat list' for names.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd, opts, args)
		},
	}
}

// runChecks executes every enabled check, or the named ones, and maps the
// outcome to an exit code.
func runChecks(cmd *cobra.Command, opts *options, names []string) error {
	deps, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := report.NewTextPrinter(out, report.ColorEnabled(out))

	var (
		rep    *runner.Report
		runErr error
	)
	if len(names) == 0 {
		rep, runErr = runner.NewRunner(checks.Enabled(deps.Config), deps, printer).RunAll(cmd.Context())
	} else {
		rep, runErr = runner.NewRunner(checks.All(deps.Config), deps, printer).RunList(cmd.Context(), names)
	}
	if rep == nil {
		return clierr.Wrap(clierr.ExitSetup, "running checks", runErr)
	}
	printer.Summary(rep)

	if opts.reportPath != "" {
		if err := report.WriteJSON(opts.reportPath, rep); err != nil {
			return clierr.Wrap(clierr.ExitSetup, "writing report", err)
		}
	}

	if errors.Is(runErr, runner.ErrChecksFailed) {
		return clierr.Quiet(clierr.ExitChecksFailed)
	}
	return runErr
}

// setup locates the repository and builds the dependencies every check
// shares. Failing to find the repository is fatal before any check runs.
func setup(cmd *cobra.Command, opts *options) (*runner.Deps, error) {
	logger := newLogger(cmd, opts.verbose)

	dir := opts.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, clierr.Wrap(clierr.ExitSetup, "getting working directory", err)
		}
		dir = wd
	}

	root, err := projectroot.Find(dir)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitSetup, "locating repository", err)
	}

	cfg, err := config.Load(root, opts.configPath)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitSetup, "loading config", err)
	}

	scn := scanner.New(root, scanner.WithExcludePaths(cfg.Exclude))
	if _, err := scn.ListFiles(cmd.Context()); err != nil {
		return nil, clierr.Wrap(clierr.ExitSetup, "listing repository files", err)
	}

	repo, err := vcs.Open(root)
	if err != nil {
		// history-based checks skip themselves without a repo
		logger.Warn("git history unavailable", "error", err)
	}

	logger.Debug("repository ready", "root", root, "fix", opts.fix)
	return &runner.Deps{
		RepoRoot: root,
		Scanner:  scn,
		Repo:     repo,
		Config:   cfg,
		Fix:      opts.fix,
		Logger:   logger,
	}, nil
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func checkNames(cfg config.Config) []string {
	all := checks.All(cfg)
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name()
	}
	return names
}

func describeSkip(cfg config.Config, name string) string {
	if cfg.Skipped(name) {
		return fmt.Sprintf("%s (skipped by config)", name)
	}
	return name
}
