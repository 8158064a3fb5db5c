package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for forumcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forumcrawl",
		Short: "Crawl a forum archive into SQLite",
		Long: `forumcrawl crawls a hierarchical forum archive and stores each thread's
opening message and replies in a SQLite database.

The crawl goes archive page -> category pages -> paginated thread listings
-> threads, one request at a time with a pause after every request.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
