package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/codexcrawl/internal/report"
	"github.com/nao1215/codexcrawl/internal/store"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the result store",
		Long: `Report reads the result store and prints one line per entry with its
unique and total system counts, or a JSON or Markdown report.

Examples:
  codexcrawl report
  codexcrawl report --json
  codexcrawl report --markdown -o codex.md
  codexcrawl report --json -o codex.json --tee`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	addConfigFlags(cmd)

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print the report to stdout")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd, cfg)

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	tee, err := cmd.Flags().GetBool("tee")
	if err != nil {
		return err
	}
	if tee && outputPath == "" {
		return errors.New("--tee requires --output")
	}

	results, err := store.Open(cfg.ResultsFile)
	if err != nil {
		return err
	}

	newWriter := func(out io.Writer) report.Writer {
		switch {
		case jsonOut:
			return report.NewJSONWriter(out, report.WithPrettyPrint())
		case markdownOut:
			return report.NewMarkdownWriter(out)
		default:
			return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
		}
	}

	writers := make([]report.Writer, 0, 2)
	if outputPath != "" {
		f, err := createOutputFile(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		writers = append(writers, newWriter(f))
	}
	if outputPath == "" || tee {
		writers = append(writers, newWriter(cmd.OutOrStdout()))
	}
	w := report.NewMultiWriter(writers...)

	if _, err := w.WriteStore(results.Records()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// createOutputFile creates (or truncates) path, creating its directory.
func createOutputFile(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("empty output path")
	}
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
