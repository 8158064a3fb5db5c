package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/forumcrawl/internal/config"
	"github.com/nao1215/forumcrawl/internal/database"
	"github.com/nao1215/forumcrawl/internal/model"
)

var errThreadNotFound = errors.New("thread not found")

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print stored threads",
		Long: `Export reads threads from the database written by crawl and prints them
as text, JSON or Markdown.

Examples:
  # List stored threads
  forumcrawl export

  # Print every thread with its responses
  forumcrawl export -v

  # Export the first 100 threads to Markdown
  forumcrawl export --limit 100 --markdown -o threads.md

  # Print a single thread as JSON
  forumcrawl export --id 42 --json`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().String("db", config.DefaultStoragePath(),
		"SQLite database file")
	cmd.Flags().IntP("limit", "l", 0,
		"Maximum number of threads to export (0 = all)")
	cmd.Flags().Int64("id", 0,
		"Export only the thread with this id")

	addConfigFlag(cmd)
	addReportFlags(cmd)

	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if err := applyConfigFile(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		db, err := cmd.Flags().GetString("db")
		if err != nil {
			return err
		}
		cfg.StoragePath = db
	}
	if err := applyReportFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	return runExport(cmd.Context(), cfg, exportQuery{limit: limit, id: id}, cmd.OutOrStdout())
}

// exportQuery selects the threads to export. A positive id wins over limit.
type exportQuery struct {
	limit int
	id    int64
}

// runExport writes the selected stored threads in the configured format.
func runExport(ctx context.Context, cfg *config.Config, q exportQuery, stdout io.Writer) error {
	db, err := database.Open(cfg.StoragePath, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	threads, err := selectThreads(ctx, db, q)
	if err != nil {
		return err
	}

	out := stdout
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if _, err := newReportWriter(cfg, out).WriteThreads(threads); err != nil {
		return fmt.Errorf("failed to write threads: %w", err)
	}
	return nil
}

func selectThreads(ctx context.Context, db *database.ThreadDB, q exportQuery) ([]model.PersistedThread, error) {
	if q.id <= 0 {
		return db.ListThreads(ctx, q.limit)
	}

	thread, err := db.GetThread(ctx, q.id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, fmt.Errorf("thread %d: %w", q.id, errThreadNotFound)
	}
	return []model.PersistedThread{*thread}, nil
}
