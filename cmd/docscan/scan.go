package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/docscan/internal/cache"
	"github.com/nao1215/docscan/internal/config"
	"github.com/nao1215/docscan/internal/crawler"
	"github.com/nao1215/docscan/internal/extract"
	"github.com/nao1215/docscan/internal/log"
	"github.com/nao1215/docscan/internal/metrics"
	"github.com/nao1215/docscan/internal/pipeline"
	"github.com/nao1215/docscan/internal/reconcile"
	"github.com/nao1215/docscan/internal/report"
	"github.com/spf13/cobra"
)

// scanModes lists the modes accepted by the scan command, in help order.
var scanModes = []string{
	extract.ModeWhatsNew,
	extract.ModeLatestVersions,
	extract.ModeDownload,
	extract.ModePEP,
}

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <mode>",
		Short: "Run one report mode against the Python documentation",
		Long: `Scan runs one of the report modes and prints its table.

Modes:
  whats-new        list every "What's New" article with its title and author
  latest-versions  list each documented Python version with its status
  download         save the documentation archive to the downloads directory
  pep              count proposal statuses and log pages that disagree with the index

Examples:
  # Print the release notes table
  docscan scan whats-new

  # Pretty table of Python versions
  docscan scan latest-versions -o pretty

  # Save the proposal status counts as CSV under the results directory
  docscan scan pep -o file

  # Ignore cached responses
  docscan scan pep --clear-cache

  # Keep going when a proposal page cannot be fetched
  docscan scan pep --on-fetch-error skip

Configuration file (.docscan) example:
  mainDocURL: https://docs.python.org/3/
  timeout: 45s
  onFetchError: skip
  statuses:            # listed codes replace their built-in sets
    F: [Final, Frozen]`,
		ValidArgs: scanModes,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE:      runScanCmd,
	}

	cmd.Flags().BoolP("clear-cache", "c", false,
		"Clear the response cache before the run")
	cmd.Flags().StringP("output", "o", config.OutputPlain,
		"Output format: pretty, file, markdown or json (default: plain text)")
	cmd.Flags().String("config", "",
		"Configuration file path (default: .docscan in current or home directory)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().String("dir", "",
		"Base directory for downloads, results and logs (default: XDG data directory)")
	cmd.Flags().String("cache-dir", "",
		"Directory of the response cache (default: XDG cache directory)")
	cmd.Flags().String("on-fetch-error", config.FetchFailureAbort,
		"What pep does when a proposal page cannot be fetched: abort or skip")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus counters to this file after the run")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := log.New(log.Options{
		Console:    cmd.ErrOrStderr(),
		NoColor:    os.Getenv("NO_COLOR") != "",
		File:       cfg.LogFile(),
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, logger.Logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig returns the defaults merged with the configuration file.
// A config path given explicitly must exist; otherwise a missing file is fine.
func loadConfig(configPath string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.ConfigFilePath = configPath

	path := config.FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
		}
		return cfg, nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.Apply(file)
	return cfg, nil
}

// buildConfig creates a Config from the configuration file and cobra flags.
// Flags set on the command line take precedence over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg.Mode = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.ClearCache, err = cmd.Flags().GetBool("clear-cache"); err != nil {
		return nil, err
	}
	if cfg.Output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.MetricsFile, err = cmd.Flags().GetString("metrics-file"); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("on-fetch-error") {
		if cfg.FetchFailurePolicy, err = flags.GetString("on-fetch-error"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("dir") {
		if cfg.BaseDir, err = flags.GetString("dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// statusTable returns the built-in legend table with the configured codes
// laid over it. Codes missing from the configuration keep their built-in sets.
func statusTable(cfg *config.Config) (reconcile.StatusTable, error) {
	if cfg.Statuses == nil && cfg.DefaultStatuses == nil {
		return reconcile.DefaultStatusTable(), nil
	}

	builtin := reconcile.DefaultStatusTable()
	codes := make(map[string][]string, len(builtin.Codes())+len(cfg.Statuses))
	for _, code := range builtin.Codes() {
		codes[code] = builtin.Expected(code)
	}
	for code, set := range cfg.Statuses {
		codes[code] = set
	}
	return reconcile.NewStatusTable(codes, cfg.DefaultStatuses)
}

// newPipeline registers every mode against the shared session.
func newPipeline(cfg *config.Config, session *crawler.Session, rec *metrics.Recorder, logger *slog.Logger) (*pipeline.Pipeline, error) {
	table, err := statusTable(cfg)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	reconciler := reconcile.New(table,
		reconcile.WithPolicy(reconcile.Policy(cfg.FetchFailurePolicy)),
		reconcile.WithLogger(logger),
		reconcile.WithMetrics(rec),
	)

	opts := []extract.Option{
		extract.WithLogger(logger),
		extract.WithMetrics(rec),
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	err = p.Register(
		extract.NewWhatsNew(session, cfg.MainDocURL, opts...),
		extract.NewLatestVersions(session, cfg.MainDocURL, opts...),
		extract.NewDownload(session, cfg.MainDocURL, cfg.ArchiveSuffix, cfg.DownloadsDir(), opts...),
		extract.NewPEP(session, cfg.PEPIndexURL, reconciler, opts...),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// runScan executes one mode and renders its table to stdout or the results directory.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) (err error) {
	logger.Info("parser started", "mode", cfg.Mode)
	startTime := time.Now()

	store, err := cache.Open(cfg.CacheDir, cache.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open response cache: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close response cache", "error", cerr)
		}
	}()
	logger.Debug("response cache opened", "path", store.Path())

	rec := metrics.New()
	if cfg.MetricsFile != "" {
		defer func() {
			if werr := rec.WriteTextfile(cfg.MetricsFile); werr != nil {
				err = errors.Join(err, fmt.Errorf("failed to write metrics: %w", werr))
			}
		}()
	}

	session := crawler.NewSession(
		crawler.WithStore(store),
		crawler.WithMetrics(rec),
		crawler.WithLogger(logger),
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithUserAgent(cfg.UserAgent),
	)

	if cfg.ClearCache {
		if err := session.ClearCache(ctx); err != nil {
			return fmt.Errorf("failed to clear response cache: %w", err)
		}
	}

	p, err := newPipeline(cfg, session, rec, logger)
	if err != nil {
		return err
	}

	writer, err := report.New(cfg.Output, stdout, cfg.ResultsDir(), logger)
	if err != nil {
		return err
	}

	if _, err := p.Run(ctx, cfg.Mode, writer); err != nil {
		return err
	}
	printSavedArchive(stdout, p, cfg.Mode)

	logger.Info("parser finished", "mode", cfg.Mode, "elapsed", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// printSavedArchive reports where the download mode saved the archive.
func printSavedArchive(w io.Writer, p *pipeline.Pipeline, name string) {
	mode, err := p.Lookup(name)
	if err != nil {
		return
	}
	saver, ok := mode.(interface{ LastPath() string })
	if !ok || saver.LastPath() == "" {
		return
	}
	fmt.Fprintf(w, "Saved %s\n", saver.LastPath())
}
