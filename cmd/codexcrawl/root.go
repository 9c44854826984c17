package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for codexcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codexcrawl",
		Short: "Collect EDSM codex entries and the systems they were found in",
		Long: `codexcrawl reads the codex taxonomy from the EDSM system search page,
keeps the categories matched by an allow-list, and for every entry pages
through the search results to collect the systems where it was reported.

Results are stored in a JSON file after each entry, so an interrupted crawl
can simply be started again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewTaxonomyCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewCacheCmd())
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
