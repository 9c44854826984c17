package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/codexcrawl/internal/database"
)

// NewCacheCmd creates the cache command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the page cache",
		Long: `Cache prints the location and size of the page cache. With --prune it
removes pages not confirmed current within the given duration; with --forget
it removes single URLs so the next run downloads them again.

Examples:
  codexcrawl cache
  codexcrawl cache --prune 720h
  codexcrawl cache --forget https://www.edsm.net/en/search/systems`,
		Args: cobra.NoArgs,
		RunE: runCacheCmd,
	}

	addConfigFlags(cmd)

	cmd.Flags().Duration("prune", 0,
		"Remove pages older than this duration")
	cmd.Flags().StringArray("forget", nil,
		"Remove the cached copy of this URL; repeat for several")

	return cmd
}

// runCacheCmd executes the cache command.
func runCacheCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd, cfg)

	prune, err := cmd.Flags().GetDuration("prune")
	if err != nil {
		return err
	}
	forget, err := cmd.Flags().GetStringArray("forget")
	if err != nil {
		return err
	}
	if prune < 0 {
		return fmt.Errorf("invalid prune duration: %s", prune)
	}

	db, err := database.Open(cfg.CacheDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open page cache: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	for _, u := range forget {
		if err := db.Delete(ctx, u); err != nil {
			return err
		}
		fmt.Fprintf(out, "Forgot %s\n", u)
	}

	if prune > 0 {
		n, err := db.Prune(ctx, time.Now().Add(-prune))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d pages older than %s\n", n, prune)
	}

	count, err := db.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Page cache: %s (%d pages)\n", db.Path(), count)
	return nil
}
