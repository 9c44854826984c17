package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior of the EDSM codex search the crawler targets.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "codexcrawl"

	// DefaultReferenceURL is the search page whose codex selector lists
	// every classification.
	DefaultReferenceURL = "https://www.edsm.net/en/search/systems"

	// DefaultListingURL is the per-entry search results URL. IDPlaceholder
	// is replaced with the entry id; later pages append "/p/<n>".
	DefaultListingURL = "https://www.edsm.net/en/search/systems/index/cmdrPosition/Sagittarius+A%2A/codexEntry/" +
		IDPlaceholder + "/onlyPopulated/0/radius/60000/sortBy/name"

	// IDPlaceholder marks where the entry id goes in the listing URL.
	IDPlaceholder = "{id}"

	// DefaultTaxonomyMaxAge is how long a cached reference page is reused.
	// The codex changes rarely, so a week-plus window saves a request on
	// most runs.
	DefaultTaxonomyMaxAge = 184 * time.Hour

	// DefaultListingMaxAge of zero fetches listing pages on every run.
	DefaultListingMaxAge = time.Duration(0)

	// DefaultPageSize is the number of rows of a full results page. A
	// shorter page is the last one.
	DefaultPageSize = 100

	// DefaultRequestDelay is the minimum interval between listing page
	// requests. EDSM throttles aggressive clients.
	DefaultRequestDelay = 60 * time.Second

	// DefaultResultsFile is the JSON result store path.
	DefaultResultsFile = "edsm-codex-scraper.json"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = "codexcrawl/1.0 (+https://github.com/nao1215/codexcrawl)"

	// DefaultMaxBodySize limits how much of a response body is read.
	// Results pages with 100 rows stay well below this.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// DefaultAllowList returns the category-name substrings crawled by default.
func DefaultAllowList() []string {
	return []string{
		"Trees",
		"Spheres",
		"Hearts",
		"Plates",
		"Crystals",
		"Molluscs",
		"Pods",
		"Stolon",
		"Type Anomalies",
		"Tubers",
		"Anemones",
		"Lagrange",
		"Shards",
		"Amphora Plants",
	}
}

// Config holds all configuration options for codexcrawl.
// It is built from defaults, then the config file, then CLI flags, and
// passed down explicitly.
type Config struct {
	// ReferenceURL is the page the taxonomy is extracted from.
	ReferenceURL string

	// ListingURL is the per-entry results URL template containing
	// IDPlaceholder.
	ListingURL string

	// AllowList holds the category-name substrings worth crawling.
	// Matching is literal and case-sensitive.
	AllowList []string

	// TaxonomyMaxAge is how long the cached reference page stays fresh.
	TaxonomyMaxAge time.Duration

	// ListingMaxAge is how long a cached listing page stays fresh.
	// Zero always refetches.
	ListingMaxAge time.Duration

	// PageSize is the row count of a full results page.
	PageSize int

	// RequestDelay is the minimum interval between listing requests.
	RequestDelay time.Duration

	// ResultsFile is the JSON result store path.
	ResultsFile string

	// CacheDir holds the page cache database.
	// Defaults to the XDG cache directory (~/.cache/codexcrawl on Linux).
	CacheDir string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Headers are extra request headers, for example a session cookie.
	Headers map[string]string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// ContinueOnError skips entries whose pages fail to fetch instead of
	// stopping the run. Skipped entries are retried by the next run.
	ContinueOnError bool

	// Verbose enables debug logging.
	Verbose bool

	// JSONLog switches log output to JSON.
	JSONLog bool

	// ConfigFilePath is the path of the loaded configuration file, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ReferenceURL:   DefaultReferenceURL,
		ListingURL:     DefaultListingURL,
		AllowList:      DefaultAllowList(),
		TaxonomyMaxAge: DefaultTaxonomyMaxAge,
		ListingMaxAge:  DefaultListingMaxAge,
		PageSize:       DefaultPageSize,
		RequestDelay:   DefaultRequestDelay,
		ResultsFile:    DefaultResultsFile,
		CacheDir:       XDGCacheDir(),
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		Headers:        map[string]string{},
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// Apply overlays the values set in a configuration file.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.ReferenceURL != "" {
		c.ReferenceURL = f.ReferenceURL
	}
	if f.ListingURL != "" {
		c.ListingURL = f.ListingURL
	}
	if len(f.AllowList) > 0 {
		c.AllowList = append([]string(nil), f.AllowList...)
	}
	if f.TaxonomyMaxAge != nil {
		c.TaxonomyMaxAge = *f.TaxonomyMaxAge
	}
	if f.ListingMaxAge != nil {
		c.ListingMaxAge = *f.ListingMaxAge
	}
	if f.PageSize != 0 {
		c.PageSize = f.PageSize
	}
	if f.RequestDelay != nil {
		c.RequestDelay = *f.RequestDelay
	}
	if f.ResultsFile != "" {
		c.ResultsFile = f.ResultsFile
	}
	if f.CacheDir != "" {
		c.CacheDir = f.CacheDir
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	for k, v := range f.Headers {
		if c.Headers == nil {
			c.Headers = map[string]string{}
		}
		c.Headers[k] = v
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.ContinueOnError != nil {
		c.ContinueOnError = *f.ContinueOnError
	}
}

// XDGConfigDir returns the XDG config directory for codexcrawl.
// On Linux: ~/.config/codexcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for codexcrawl.
// On Linux: ~/.cache/codexcrawl
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if !isHTTPURL(c.ReferenceURL) {
		return ErrInvalidReferenceURL
	}

	if !strings.Contains(c.ListingURL, IDPlaceholder) {
		return ErrMissingIDPlaceholder
	}
	if !isHTTPURL(strings.ReplaceAll(c.ListingURL, IDPlaceholder, "0")) {
		return ErrInvalidListingURL
	}

	if len(c.AllowList) == 0 {
		return ErrEmptyAllowList
	}
	for _, a := range c.AllowList {
		// An empty substring would match every category.
		if a == "" {
			return ErrEmptyAllowListEntry
		}
	}

	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}

	if c.TaxonomyMaxAge < 0 || c.ListingMaxAge < 0 {
		return ErrInvalidMaxAge
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.ResultsFile == "" {
		return ErrNoResultsFile
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
