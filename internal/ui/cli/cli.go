package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

const versionString = "1.0.0"

type cliOptions struct {
	path       string
	output     string
	watch      bool
	configPath string
	interval   time.Duration
	verbose    bool
}

type historyOptions struct {
	dbPath string
	limit  int
}

// ExitError carries a process exit code out of a RunE handler.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts cliOptions

	root := &cobra.Command{
		Use:   "csmerge",
		Short: "Merge a tree of C# sources into one file",
		Long: `csmerge collects every C# source file below a directory, groups the
member lines of each file by namespace and writes one merged file with a
single deduplicated block of using directives.

Examples:
  csmerge -p ./src -o ./Merged.cs        Merge once and exit
  csmerge -p ./src -o ./Merged.cs -w     Re-merge whenever a source changes
  csmerge history --db csmerge-history.db`,
		Version:       versionString,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Past flag parsing, failures are not usage errors.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return runMerge(cmd.Context(), cmd, opts, stdout, stderr)
		},
	}
	root.SetVersionTemplate("csmerge v{{.Version}}\n")

	flags := root.Flags()
	flags.StringVarP(&opts.path, "path", "p", "", "directory containing the C# sources")
	flags.StringVarP(&opts.output, "output", "o", "", "file the merged source is written to")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "keep running and re-merge when sources change")
	flags.StringVar(&opts.configPath, "config", "", "optional TOML config file")
	flags.DurationVar(&opts.interval, "interval", 0, "polling interval in watch mode (default 500ms)")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	_ = root.MarkFlagRequired("path")
	_ = root.MarkFlagRequired("output")

	root.AddCommand(newHistoryCommand(stdout))
	return root
}

func newHistoryCommand(stdout io.Writer) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded merge runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runHistory(opts, stdout)
		},
	}
	cmd.Flags().StringVar(&opts.dbPath, "db", "csmerge-history.db", "history database path")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "number of runs to show")
	return cmd
}
