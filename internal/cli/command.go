// Package cli wires the dirscan command line to the walk and its observers.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirscan/internal/config"
	"github.com/idelchi/dirscan/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the process arguments. An interrupt cancels the walk.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.command().ExecuteContext(ctx)
}

// command builds the root command and its subcommands.
func (c CLI) command() *cobra.Command {
	var (
		configPath string
		outPath    string
		debug      bool
		version    bool
		initScript bool
	)

	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   config.AppName + " [flags] [path...]",
		Short: "Report immediate-child counts and sizes for every directory",
		Long: heredoc.Doc(`
			dirscan walks each path and reports, for every directory, how many immediate
			files and subdirectories it holds and how many bytes those children occupy.

			Positional Arguments:
			  path                   Paths to analyze. Defaults to the current directory.

			Observers:
			  dirtree   indented per-directory report (--format text, flat or json)
			  summary   totals, top extensions and largest files (--output table or json)
			  listing   every visited entry (--output table or json)

			Symlinks are reported but never followed. Unreadable entries are skipped
			and logged. Settings can also come from a config file (see 'config init')
			or DIRSCAN_* environment variables.

			The '-I' flag is available if using the integration script for shell usage.
			It will then run an interactive mode where the output of the tool is piped to 'fzf'
		`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if initScript {
				return c.printIntegration(cmd)
			}

			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			if debug {
				cfg.Log.Level = "debug"
			}

			return run(cmd.Context(), runOptions{
				Config:  *cfg,
				Roots:   args,
				OutPath: outPath,
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
			})
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringSliceP("observer", "O", defaults.Observers, "Observers to run: dirtree, summary, listing")
	flags.String("format", defaults.Format, "Directory report format: text, flat or json")
	flags.StringP("output", "o", defaults.Output, "Summary and listing format: table or json")
	flags.Bool("parallel", defaults.Parallel, "Walk with parallel directory listing (entries are not pre-ordered)")
	flags.Int("workers", defaults.Workers, "Workers for --parallel (0=automatic)")
	flags.IntP("depth", "d", defaults.Depth, "Maximum traversal depth (0=unlimited)")
	flags.StringSliceP("exclude", "e", defaults.Excludes, "Regex patterns to exclude")
	flags.String("ignore-file", defaults.IgnoreFile, "Gitignore-style file of paths to exclude")
	flags.StringSliceP(
		"ext",
		"x",
		defaults.Extensions,
		"Summary file suffixes to include (e.g., .go,.md). Use '!' prefix to exclude (e.g., !.log,!_test.go)",
	)
	flags.String("min-size", defaults.MinSize, "Minimum file size counted by the summary (e.g., 1KB)")
	flags.IntP("top", "t", defaults.Top, "Number of largest files in the summary")
	flags.StringVar(&outPath, "out", "", "Write the report to a file instead of stdout")
	flags.String("log-level", defaults.Log.Level, "Log level: debug, info, warn or error")
	flags.String("log-format", defaults.Log.Format, "Log format: console or json")
	flags.BoolVar(&debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&initScript, "init", "i", false, "Output init script for shell usage")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")

	cmd.AddCommand(compressCommand(), configCommand(&configPath))

	return cmd
}

// printIntegration writes the shell integration script.
func (c CLI) printIntegration(cmd *cobra.Command) error {
	rendered, err := integration.Render(config.AppName)
	if err != nil {
		return fmt.Errorf("rendering integration script: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), rendered)

	return nil
}
