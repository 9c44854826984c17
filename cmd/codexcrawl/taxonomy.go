package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/codexcrawl/internal/config"
	"github.com/nao1215/codexcrawl/internal/crawler"
	"github.com/nao1215/codexcrawl/internal/report"
)

// NewTaxonomyCmd creates the taxonomy command.
func NewTaxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Show the codex categories and entries that would be crawled",
		Long: `Taxonomy fetches the reference page (or reuses the cached copy), applies
the allow-list and prints the kept categories with their entry ids, followed
by the ignored categories. No listing page is requested.

Examples:
  codexcrawl taxonomy
  codexcrawl taxonomy --allow Anemones`,
		Args: cobra.NoArgs,
		RunE: runTaxonomyCmd,
	}

	addConfigFlags(cmd)
	addFetchFlags(cmd)

	return cmd
}

// runTaxonomyCmd executes the taxonomy command.
func runTaxonomyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	return runTaxonomy(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
}

func runTaxonomy(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	cache, db, err := openFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	full, err := crawler.New(cache, nil, crawlerOptions(cfg, logger)...).FetchTaxonomy(ctx)
	if err != nil {
		return err
	}

	kept, ignored := full.Filter(cfg.AllowList)
	if _, err := report.NewSimpleWriter(out).WriteTaxonomy(kept, ignored); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d of %d categories kept, %d entries\n", kept.Len(), full.Len(), len(kept.IDs()))
	return nil
}
