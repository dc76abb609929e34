package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	coreapp "csmerge/internal/core/app"
	"csmerge/internal/core/config"
	"csmerge/internal/data/history"
	"csmerge/internal/shared/observability"

	"github.com/spf13/cobra"
)

// Run parses args, runs the requested command and returns the exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 2
}

func runMerge(ctx context.Context, cmd *cobra.Command, opts cliOptions, stdout, stderr io.Writer) error {
	configureLogging(stderr, opts.verbose)

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return &ExitError{Code: 1, Err: err}
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", opts.configPath)
		return &ExitError{Code: 1, Err: err}
	}
	applyOptions(cfg, opts, cmd)
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return &ExitError{Code: 1, Err: err}
	}

	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		slog.Error("failed to resolve runtime paths", "error", err)
		return &ExitError{Code: 1, Err: err}
	}

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				slog.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	application, err := coreapp.New(cfg, paths)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return &ExitError{Code: 1, Err: err}
	}
	application.SetOutput(stdout, stderr)

	store, err := openHistoryStoreIfEnabled(cfg, paths)
	if err != nil {
		slog.Error("history setup failed", "error", err)
		return &ExitError{Code: 1, Err: err}
	}
	if store != nil {
		defer store.Close()
		application.SetHistory(store)
	}

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		server := NewObservabilityServer(addr, coreapp.NewHealthService(application))
		if err := server.Start(ctx); err != nil {
			slog.Warn("observability server unavailable", "error", err)
		} else {
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Stop(stopCtx)
			}()
		}
	}

	if err := application.Run(ctx); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyOptions lays command-line values over the file config. Watch mode
// can be switched on from either side; the interval only when given.
func applyOptions(cfg *config.Config, opts cliOptions, cmd *cobra.Command) {
	if opts.path != "" {
		cfg.Source.Root = opts.path
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if opts.watch {
		cfg.Watch.Enabled = true
	}
	if cmd != nil && cmd.Flags().Changed("interval") {
		cfg.Watch.Interval = opts.interval
	}
}

func openHistoryStoreIfEnabled(cfg *config.Config, paths config.ResolvedPaths) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(paths.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("open history store %s: %w", paths.HistoryPath, err)
	}
	return store, nil
}

func runHistory(opts historyOptions, stdout io.Writer) error {
	if _, err := os.Stat(opts.dbPath); err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("history database %s: %w", opts.dbPath, err)}
	}
	store, err := history.Open(opts.dbPath)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	defer store.Close()

	runs, err := store.Recent(opts.limit)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No merge runs recorded.")
		return nil
	}
	return printRuns(stdout, runs)
}

func printRuns(w io.Writer, runs []history.MergeRun) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tSTATUS\tFILES\tNAMESPACES\tIMPORTS\tDURATION\tDETAIL")
	for _, run := range runs {
		detail := ""
		if run.Status == "failed" {
			detail = run.FailureKind + ": " + run.Error
		} else if !run.LastEdited.IsZero() {
			detail = "last edited " + run.LastEdited.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			run.Timestamp.Local().Format(time.RFC3339),
			run.Status,
			run.Files,
			run.Namespaces,
			run.Imports,
			run.Duration.Round(time.Millisecond),
			detail,
		)
	}
	return tw.Flush()
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
