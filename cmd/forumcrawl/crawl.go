package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/forumcrawl/internal/config"
	"github.com/nao1215/forumcrawl/internal/crawler"
	"github.com/nao1215/forumcrawl/internal/database"
	flog "github.com/nao1215/forumcrawl/internal/log"
	"github.com/nao1215/forumcrawl/internal/model"
	"github.com/nao1215/forumcrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the forum archive and store every thread",
		Long: `Crawl walks the forum archive and stores each thread in SQLite.

Traversal:
  archive page    -> category links (the first 7 links are navigation)
  category page 1 -> thread links   (the first 3 links are navigation)
  category page n -> same as page 1, for n = 2, 3, ... until a page fails
                     or lists no threads
  thread page     -> first post is the question, the rest are responses

Only a failure to fetch the archive page stops the crawl. Any other failure
skips that category or thread and is reported in the summary.

Examples:
  # Crawl the default archive into the default database
  forumcrawl crawl

  # Crawl another archive into a local database, half a second between requests
  forumcrawl crawl --archive https://forum.example.com/archive/index.php/ --db ./forum.db --delay 500ms

  # Cap the request rate and honor robots.txt
  forumcrawl crawl --rate 30 --robots

  # Write the run summary as JSON
  forumcrawl crawl --json -o summary.json`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("archive", "a", config.DefaultArchiveRoot,
		"Archive index URL the crawl starts from")
	cmd.Flags().String("db", config.DefaultStoragePath(),
		"SQLite database file")
	cmd.Flags().DurationP("delay", "d", config.DefaultRequestDelay,
		"Pause after every request")
	cmd.Flags().Int("category-skip", config.DefaultCategorySkip,
		"Leading navigation links to drop on the archive page")
	cmd.Flags().Int("listing-skip", config.DefaultListingSkip,
		"Leading navigation links to drop on thread listing pages")
	cmd.Flags().Int("rate", 0,
		"Maximum requests per minute (0 = only --delay applies)")
	cmd.Flags().Bool("robots", false,
		"Honor robots.txt of the archive host")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")

	addConfigFlag(cmd)
	addReportFlags(cmd)

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, stopping after the current request")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// runCrawl opens the store, crawls and writes the run summary.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	db, err := database.Open(cfg.StoragePath, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logger.Info("database opened", "path", db.Path())

	c := crawler.NewFromConfig(cfg, newFetcher(cfg), db, logger)
	stats, runErr := c.Run(ctx)
	logStoreTotals(db, logger)

	if errors.Is(runErr, crawler.ErrArchiveUnavailable) {
		return fmt.Errorf("crawl aborted: %w", runErr)
	}

	if err := outputReport(cfg, &stats, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("crawl interrupted: %w", runErr)
	}
	return nil
}

// logStoreTotals logs how many rows the database holds after a run.
// The run context may already be cancelled, so a fresh one is used.
func logStoreTotals(db *database.ThreadDB, logger *slog.Logger) {
	ctx := context.Background()
	threads, err := db.CountThreads(ctx)
	if err != nil {
		logger.Warn("failed to count threads", "error", err)
		return
	}
	responses, err := db.CountResponses(ctx)
	if err != nil {
		logger.Warn("failed to count responses", "error", err)
		return
	}
	logger.Info("database totals", "threads", threads, "responses", responses)
}

// newFetcher builds the HTTP fetcher described by cfg.
func newFetcher(cfg *config.Config) *crawler.HTTPFetcher {
	client := &http.Client{Timeout: cfg.Timeout}
	return crawler.NewHTTPFetcher(client,
		crawler.WithDelay(cfg.RequestDelay),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithRequestsPerMinute(cfg.MaxRequestsPerMinute),
		crawler.WithRobots(cfg.RespectRobots),
	)
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags, in that order of precedence (flags win).
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	var err error

	if flags.Changed("archive") {
		if cfg.ArchiveRoot, err = flags.GetString("archive"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db") {
		if cfg.StoragePath, err = flags.GetString("db"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.RequestDelay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("category-skip") {
		if cfg.CategorySkip, err = flags.GetInt("category-skip"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("listing-skip") {
		if cfg.ListingSkip, err = flags.GetInt("listing-skip"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("rate") {
		if cfg.MaxRequestsPerMinute, err = flags.GetInt("rate"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("robots") {
		if cfg.RespectRobots, err = flags.GetBool("robots"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	if err := applyReportFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .forumcrawl in current or home directory)")
}

// applyConfigFile loads the configuration file onto cfg.
// A missing file is an error only when --config names it explicitly.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	file.Apply(cfg)
	return nil
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to the specified file (creates directories if needed)")
}

func applyReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	return nil
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

// setupLogger creates the redacting logger used by every command.
func setupLogger(verbose bool) *slog.Logger {
	return flog.NewSecureLogger(os.Stderr, verbose)
}

// newReportWriter picks the Writer for the configured format.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}

// createReportFile creates path and its parent directories.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// outputReport writes the run summary. With --output the chosen format goes
// to the file and a plain text summary still goes to stdout.
func outputReport(cfg *config.Config, stats *model.RunStats, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		_, err := newReportWriter(cfg, stdout).WriteStats(stats)
		return err
	}

	f, err := createReportFile(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := report.NewMultiWriter(newReportWriter(cfg, f), report.NewSimpleWriter(stdout))
	if _, err := w.WriteStats(stats); err != nil {
		return err
	}
	return f.Close()
}
