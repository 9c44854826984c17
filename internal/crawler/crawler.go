package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/codexcrawl/internal/config"
	"github.com/nao1215/codexcrawl/internal/extract"
	"github.com/nao1215/codexcrawl/internal/fetch"
	"github.com/nao1215/codexcrawl/internal/model"
)

// Fetcher retrieves page content, honoring a staleness window.
// *fetch.Cache implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string, maxAge time.Duration) (*fetch.Result, error)
}

// Store is the subset of the result store the crawler needs.
// *store.Store implements it.
type Store interface {
	Has(id string) bool
	Put(id string, rec model.Record) error
}

// Reporter receives progress events during a run.
type Reporter interface {
	// TaxonomyFiltered is called once, after the allow-list was applied.
	TaxonomyFiltered(allow []string, kept *model.Taxonomy, ignored []string)

	// PageParsed is called after every listing page. names is the row count
	// of this page, total the running count for the entry.
	PageParsed(id string, page, names, total int)

	// EntryCompleted is called after rec was written to the store.
	EntryCompleted(id string, rec model.Record)

	// EntryFailed is called for an entry skipped in this run.
	EntryFailed(id string, err error)
}

type nopReporter struct{}

func (nopReporter) TaxonomyFiltered([]string, *model.Taxonomy, []string) {}
func (nopReporter) PageParsed(string, int, int, int)                      {}
func (nopReporter) EntryCompleted(string, model.Record)                   {}
func (nopReporter) EntryFailed(string, error)                             {}

// Summary describes the outcome of a run.
type Summary struct {
	// Categories is the number of categories kept by the allow-list.
	Categories int

	// Ignored lists the category names the allow-list rejected.
	Ignored []string

	// Entries is the number of entry ids in the kept categories.
	Entries int

	// Skipped is the number of entries already present in the store.
	Skipped int

	// Completed lists the entry ids crawled and stored in this run.
	Completed []string

	// Failed lists the entries that could not be completed.
	Failed []EntryError

	// Fetches is the number of listing page requests issued.
	Fetches int
}

// Crawler runs the taxonomy and listing phases against a Fetcher and
// writes completed entries to a Store.
type Crawler struct {
	fetcher         Fetcher
	store           Store
	referenceURL    string
	listingURL      string
	allow           []string
	taxonomyMaxAge  time.Duration
	listingMaxAge   time.Duration
	pageSize        int
	limiter         Limiter
	reporter        Reporter
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithReferenceURL sets the page the taxonomy is extracted from.
func WithReferenceURL(u string) Option {
	return func(c *Crawler) {
		c.referenceURL = u
	}
}

// WithListingURLTemplate sets the listing URL template. It must contain
// config.IDPlaceholder.
func WithListingURLTemplate(tmpl string) Option {
	return func(c *Crawler) {
		c.listingURL = tmpl
	}
}

// WithAllowList sets the category-name substrings to crawl.
func WithAllowList(allow []string) Option {
	return func(c *Crawler) {
		c.allow = append([]string(nil), allow...)
	}
}

// WithTaxonomyMaxAge sets the staleness window of the reference page.
func WithTaxonomyMaxAge(d time.Duration) Option {
	return func(c *Crawler) {
		c.taxonomyMaxAge = d
	}
}

// WithListingMaxAge sets the staleness window of listing pages.
func WithListingMaxAge(d time.Duration) Option {
	return func(c *Crawler) {
		c.listingMaxAge = d
	}
}

// WithPageSize sets the row count of a full listing page.
func WithPageSize(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLimiter sets the listing request pacing.
func WithLimiter(l Limiter) Option {
	return func(c *Crawler) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(c *Crawler) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithContinueOnError makes fetch failures skip the entry instead of
// stopping the run.
func WithContinueOnError(b bool) Option {
	return func(c *Crawler) {
		c.continueOnError = b
	}
}

// New creates a Crawler with the EDSM defaults from package config.
func New(fetcher Fetcher, store Store, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:        fetcher,
		store:          store,
		referenceURL:   config.DefaultReferenceURL,
		listingURL:     config.DefaultListingURL,
		allow:          config.DefaultAllowList(),
		taxonomyMaxAge: config.DefaultTaxonomyMaxAge,
		listingMaxAge:  config.DefaultListingMaxAge,
		pageSize:       config.DefaultPageSize,
		limiter:        NewIntervalLimiter(config.DefaultRequestDelay),
		reporter:       nopReporter{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// FetchTaxonomy fetches the reference page and returns its full taxonomy.
func (c *Crawler) FetchTaxonomy(ctx context.Context) (*model.Taxonomy, error) {
	res, err := c.fetcher.Fetch(ctx, c.referenceURL, c.taxonomyMaxAge)
	if err != nil {
		return nil, fmt.Errorf("fetch taxonomy: %w", err)
	}
	c.logger.Debug("reference page loaded", "url", c.referenceURL, "downloaded", res.Downloaded, "bytes", len(res.Body))

	parsed, err := extract.Extract(res.Body)
	if err != nil {
		return nil, fmt.Errorf("extract taxonomy: %w", err)
	}
	return parsed.Taxonomy, nil
}

// ListingURL returns the URL of one results page of an entry. Page 1 has no
// page suffix.
func (c *Crawler) ListingURL(id string, page int) string {
	u := strings.ReplaceAll(c.listingURL, config.IDPlaceholder, url.PathEscape(id))
	if page >= 2 {
		u += "/p/" + strconv.Itoa(page)
	}
	return u
}

// Run performs both phases. The returned Summary is valid even when an
// error stops the run early.
func (c *Crawler) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	full, err := c.FetchTaxonomy(ctx)
	if err != nil {
		return summary, err
	}

	kept, ignored := full.Filter(c.allow)
	ids := kept.IDs()
	summary.Categories = kept.Len()
	summary.Ignored = ignored
	summary.Entries = len(ids)
	c.reporter.TaxonomyFiltered(c.allow, kept, ignored)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if c.store.Has(id) {
			summary.Skipped++
			continue
		}

		rec, err := c.crawlEntry(ctx, id, summary)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			if errors.Is(err, ErrUnknownEntry) || (c.continueOnError && errors.Is(err, fetch.ErrFetchFailed)) {
				c.logger.Warn("skipping entry", "id", id, "error", err)
				summary.Failed = append(summary.Failed, EntryError{ID: id, Err: err})
				c.reporter.EntryFailed(id, err)
				continue
			}
			return summary, fmt.Errorf("entry %s: %w", id, err)
		}

		if err := c.store.Put(id, rec); err != nil {
			return summary, fmt.Errorf("store entry %s: %w", id, err)
		}
		summary.Completed = append(summary.Completed, id)
		c.reporter.EntryCompleted(id, rec)
	}

	return summary, nil
}

// crawlEntry pages through the results of one entry and resolves its
// metadata from the taxonomy of the last page.
func (c *Crawler) crawlEntry(ctx context.Context, id string, summary *Summary) (model.Record, error) {
	systems := make([]string, 0, c.pageSize)
	var last *model.Taxonomy

	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Record{}, err
		}

		u := c.ListingURL(id, page)
		c.logger.Debug("fetching listing page", "id", id, "page", page, "url", u)
		summary.Fetches++
		res, err := c.fetcher.Fetch(ctx, u, c.listingMaxAge)
		if err != nil {
			return model.Record{}, fmt.Errorf("page %d: %w", page, err)
		}

		parsed, err := extract.Extract(res.Body)
		if err != nil {
			return model.Record{}, fmt.Errorf("page %d: %w", page, err)
		}
		systems = append(systems, parsed.Names...)
		last = parsed.Taxonomy
		c.reporter.PageParsed(id, page, len(parsed.Names), len(systems))

		if len(parsed.Names) != c.pageSize {
			break
		}
	}

	category, name, ok := last.Lookup(id)
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	return model.Record{
		Classification: category,
		Name:           name,
		Systems:        systems,
	}, nil
}
