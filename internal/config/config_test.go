package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig tests that NewConfig returns a Config with correct default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.ReferenceURL != DefaultReferenceURL {
		t.Errorf("expected reference URL %q, got %q", DefaultReferenceURL, cfg.ReferenceURL)
	}
	if !strings.Contains(cfg.ListingURL, IDPlaceholder) {
		t.Errorf("expected listing URL to contain %s, got %q", IDPlaceholder, cfg.ListingURL)
	}
	if cfg.TaxonomyMaxAge != 184*time.Hour {
		t.Errorf("expected taxonomy max age 184h, got %v", cfg.TaxonomyMaxAge)
	}
	if cfg.ListingMaxAge != 0 {
		t.Errorf("expected listing max age 0, got %v", cfg.ListingMaxAge)
	}
	if cfg.PageSize != 100 {
		t.Errorf("expected page size 100, got %d", cfg.PageSize)
	}
	if cfg.RequestDelay != time.Minute {
		t.Errorf("expected request delay 1m, got %v", cfg.RequestDelay)
	}
	if cfg.ResultsFile != "edsm-codex-scraper.json" {
		t.Errorf("expected default results file, got %q", cfg.ResultsFile)
	}
	if cfg.CacheDir != XDGCacheDir() {
		t.Errorf("expected cache dir %q, got %q", XDGCacheDir(), cfg.CacheDir)
	}
	if cfg.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("expected max body size %d, got %d", DefaultMaxBodySize, cfg.MaxBodySize)
	}
	if cfg.Headers == nil {
		t.Error("expected headers map to be initialized")
	}
	if cfg.ContinueOnError {
		t.Error("expected ContinueOnError to be false by default")
	}
	if len(cfg.AllowList) != 14 {
		t.Errorf("expected 14 allow-list entries, got %d", len(cfg.AllowList))
	}
}

// TestDefaultAllowList tests that callers cannot mutate the defaults.
func TestDefaultAllowList(t *testing.T) {
	t.Parallel()

	a := DefaultAllowList()
	a[0] = "changed"
	if DefaultAllowList()[0] != "Trees" {
		t.Error("expected DefaultAllowList to return a fresh slice")
	}
}

// TestConfigValidate tests the Validate method.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			modify:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "zero delay is valid",
			modify:  func(c *Config) { c.RequestDelay = 0 },
			wantErr: nil,
		},
		{
			name:    "relative reference URL",
			modify:  func(c *Config) { c.ReferenceURL = "/en/search/systems" },
			wantErr: ErrInvalidReferenceURL,
		},
		{
			name:    "non http reference URL",
			modify:  func(c *Config) { c.ReferenceURL = "ftp://example.com/" },
			wantErr: ErrInvalidReferenceURL,
		},
		{
			name:    "listing URL without placeholder",
			modify:  func(c *Config) { c.ListingURL = "https://example.com/codexEntry/12" },
			wantErr: ErrMissingIDPlaceholder,
		},
		{
			name:    "listing URL without host",
			modify:  func(c *Config) { c.ListingURL = "/codexEntry/{id}" },
			wantErr: ErrInvalidListingURL,
		},
		{
			name:    "empty allow-list",
			modify:  func(c *Config) { c.AllowList = nil },
			wantErr: ErrEmptyAllowList,
		},
		{
			name:    "empty allow-list entry",
			modify:  func(c *Config) { c.AllowList = []string{"Trees", ""} },
			wantErr: ErrEmptyAllowListEntry,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.PageSize = 0 },
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "negative delay",
			modify:  func(c *Config) { c.RequestDelay = -time.Second },
			wantErr: ErrInvalidRequestDelay,
		},
		{
			name:    "negative taxonomy max age",
			modify:  func(c *Config) { c.TaxonomyMaxAge = -time.Hour },
			wantErr: ErrInvalidMaxAge,
		},
		{
			name:    "negative listing max age",
			modify:  func(c *Config) { c.ListingMaxAge = -time.Hour },
			wantErr: ErrInvalidMaxAge,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "no results file",
			modify:  func(c *Config) { c.ResultsFile = "" },
			wantErr: ErrNoResultsFile,
		},
		{
			name:    "negative max body size",
			modify:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigApply tests overlaying a configuration file onto defaults.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("nil file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(nil)
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		zero := time.Duration(0)
		week := 7 * 24 * time.Hour
		yes := true
		cfg := NewConfig()
		cfg.Apply(&File{
			AllowList:       []string{"Trees"},
			TaxonomyMaxAge:  &week,
			RequestDelay:    &zero,
			PageSize:        50,
			ResultsFile:     "out.json",
			Headers:         map[string]string{"Cookie": "a=b"},
			ContinueOnError: &yes,
		})

		if diff := cmp.Diff([]string{"Trees"}, cfg.AllowList); diff != "" {
			t.Errorf("allow-list mismatch (-want +got):\n%s", diff)
		}
		if cfg.TaxonomyMaxAge != week {
			t.Errorf("expected taxonomy max age %v, got %v", week, cfg.TaxonomyMaxAge)
		}
		if cfg.RequestDelay != 0 {
			t.Errorf("expected explicit zero delay, got %v", cfg.RequestDelay)
		}
		if cfg.PageSize != 50 {
			t.Errorf("expected page size 50, got %d", cfg.PageSize)
		}
		if cfg.ResultsFile != "out.json" {
			t.Errorf("expected results file out.json, got %q", cfg.ResultsFile)
		}
		if cfg.Headers["Cookie"] != "a=b" {
			t.Errorf("expected Cookie header, got %v", cfg.Headers)
		}
		if !cfg.ContinueOnError {
			t.Error("expected ContinueOnError to be true")
		}
		if cfg.ListingURL != DefaultListingURL {
			t.Errorf("expected unset listing URL to keep default, got %q", cfg.ListingURL)
		}
	})
}

// TestLoadConfigFile tests loading configuration from a YAML file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `allow_list:
  - Trees
  - Anemones
taxonomy_max_age: 24h
listing_max_age: 0s
request_delay: 90s
page_size: 100
results_file: codex.json
headers:
  Cookie: session=abc
continue_on_error: true
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff([]string{"Trees", "Anemones"}, cf.AllowList); diff != "" {
			t.Errorf("allow-list mismatch (-want +got):\n%s", diff)
		}
		if cf.TaxonomyMaxAge == nil || *cf.TaxonomyMaxAge != 24*time.Hour {
			t.Errorf("expected taxonomy max age 24h, got %v", cf.TaxonomyMaxAge)
		}
		if cf.ListingMaxAge == nil || *cf.ListingMaxAge != 0 {
			t.Errorf("expected explicit listing max age 0, got %v", cf.ListingMaxAge)
		}
		if cf.RequestDelay == nil || *cf.RequestDelay != 90*time.Second {
			t.Errorf("expected request delay 90s, got %v", cf.RequestDelay)
		}
		if cf.ResultsFile != "codex.json" {
			t.Errorf("expected results file codex.json, got %q", cf.ResultsFile)
		}
		if cf.Headers["Cookie"] != "session=abc" {
			t.Errorf("expected Cookie header, got %v", cf.Headers)
		}
		if cf.ContinueOnError == nil || !*cf.ContinueOnError {
			t.Error("expected continue_on_error to be true")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("invalid: yaml: content: [}"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file leaves every field unset", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		cfg.Apply(cf)
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})
}

// TestFindConfigFile tests the config file search order.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("page_size: 10\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty string for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGDirs tests the XDG directory helpers.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
	if !strings.HasSuffix(XDGCacheDir(), AppName) {
		t.Errorf("expected cache dir to end with %q, got %q", AppName, XDGCacheDir())
	}
}
