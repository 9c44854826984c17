package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/codexcrawl/internal/config"
	"github.com/nao1215/codexcrawl/internal/crawler"
	"github.com/nao1215/codexcrawl/internal/report"
	"github.com/nao1215/codexcrawl/internal/store"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the codex entries and update the result store",
		Long: `Crawl fetches the codex taxonomy, keeps the allow-listed categories and
collects the systems of every entry that is not yet in the result store.

Each entry is written to the result store as soon as its last page is read.
Interrupting the crawl (Ctrl+C) loses at most the entry in progress; run the
command again to resume.

Examples:
  # Crawl with the default allow-list and a 60s delay between pages
  codexcrawl crawl

  # Crawl only trees and anemones into a custom file
  codexcrawl crawl --allow Trees --allow Anemones -r codex.json

  # Keep going when a page cannot be fetched
  codexcrawl crawl --continue-on-error`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	addConfigFlags(cmd)
	addFetchFlags(cmd)

	cmd.Flags().Duration("delay", config.DefaultRequestDelay,
		"Minimum interval between listing page requests")
	cmd.Flags().Int("page-size", config.DefaultPageSize,
		"Rows of a full results page; a shorter page is the last one")
	cmd.Flags().Bool("continue-on-error", false,
		"Skip entries whose pages fail to fetch instead of stopping")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), logger)
}

// runCrawl loads the result store, reports its contents and runs the crawler.
func runCrawl(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	results, err := store.Open(cfg.ResultsFile)
	if err != nil {
		return err
	}
	logger.Info("result store loaded", "path", results.Path(), "entries", results.Len())

	if _, err := report.NewSimpleWriter(out).WriteStore(results.Records()); err != nil {
		return err
	}

	cache, db, err := openFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := append(crawlerOptions(cfg, logger), crawler.WithReporter(report.NewProgressWriter(out)))
	summary, err := crawler.New(cache, results, opts...).Run(ctx)
	if summary != nil {
		fmt.Fprintf(out, "Completed %d, skipped %d, failed %d of %d entries (%d page requests)\n",
			len(summary.Completed), summary.Skipped, len(summary.Failed), summary.Entries, summary.Fetches)
	}
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("crawl interrupted, completed entries are saved in %s: %w", cfg.ResultsFile, err)
		}
		return fmt.Errorf("crawl failed: %w", err)
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d entries failed, run the crawl again to retry them", len(summary.Failed))
	}
	return nil
}
