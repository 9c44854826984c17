package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nao1215/codexcrawl/internal/config"
	"github.com/nao1215/codexcrawl/internal/crawler"
	"github.com/nao1215/codexcrawl/internal/database"
	"github.com/nao1215/codexcrawl/internal/fetch"
	codexlog "github.com/nao1215/codexcrawl/internal/log"
)

// addConfigFlags registers the flags shared by every command that reads
// the configuration file.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .codexcrawl in current or home directory)")
	cmd.Flags().StringP("results", "r", config.DefaultResultsFile,
		"Result store JSON file")
	cmd.Flags().String("cache-dir", "",
		"Page cache directory (default: $XDG_CACHE_HOME/codexcrawl)")
}

// addFetchFlags registers the flags of commands that talk to EDSM.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("allow", nil,
		"Category name substring to crawl; repeat to crawl several (replaces the configured allow-list)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
}

// flagChanged reports whether the user set the named flag.
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getBoolFlag retrieves a bool flag from the command or the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the user set, in that order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.JSONLog = getBoolFlag(cmd, "json-log")

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; the default locations are optional.
	found := config.FindConfigFile(path)
	switch {
	case found != "":
		f, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.Apply(f)
		cfg.ConfigFilePath = found
	case path != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
	}

	if flagChanged(cmd, "results") {
		if cfg.ResultsFile, err = cmd.Flags().GetString("results"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "cache-dir") {
		if cfg.CacheDir, err = cmd.Flags().GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "allow") {
		if cfg.AllowList, err = cmd.Flags().GetStringArray("allow"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "delay") {
		if cfg.RequestDelay, err = cmd.Flags().GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "page-size") {
		if cfg.PageSize, err = cmd.Flags().GetInt("page-size"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "continue-on-error") {
		if cfg.ContinueOnError, err = cmd.Flags().GetBool("continue-on-error"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the logger for cfg and installs it as the default.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := codexlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.JSONLog)
	slog.SetDefault(logger)
	return logger
}

// openFetcher opens the page cache and returns a fetch cache backed by it.
// The caller closes the returned database.
func openFetcher(cfg *config.Config, logger *slog.Logger) (*fetch.Cache, *database.CacheDB, error) {
	db, err := database.Open(cfg.CacheDir, database.DefaultOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open page cache: %w", err)
	}
	logger.Debug("page cache opened", "path", db.Path(), "headers", cfg.Headers)

	client := &http.Client{Timeout: cfg.Timeout}
	cache := fetch.NewCache(client, db,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)
	return cache, db, nil
}

// crawlerOptions maps cfg onto crawler options.
func crawlerOptions(cfg *config.Config, logger *slog.Logger) []crawler.Option {
	return []crawler.Option{
		crawler.WithReferenceURL(cfg.ReferenceURL),
		crawler.WithListingURLTemplate(cfg.ListingURL),
		crawler.WithAllowList(cfg.AllowList),
		crawler.WithTaxonomyMaxAge(cfg.TaxonomyMaxAge),
		crawler.WithListingMaxAge(cfg.ListingMaxAge),
		crawler.WithPageSize(cfg.PageSize),
		crawler.WithLimiter(crawler.NewIntervalLimiter(cfg.RequestDelay)),
		crawler.WithContinueOnError(cfg.ContinueOnError),
		crawler.WithLogger(logger),
	}
}
