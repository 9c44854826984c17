package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/codexcrawl/internal/database"
)

// Result is the outcome of a successful Fetch.
type Result struct {
	// URL is the requested URL.
	URL string

	// Body is the page content, from the network or the local copy.
	Body []byte

	// StatusCode is the status of the response that produced Body.
	StatusCode int

	// Downloaded is true when new content came from the network, false when
	// the local copy was reused.
	Downloaded bool

	// FetchedAt is when Body was last confirmed current.
	FetchedAt time.Time
}

// Cache fetches pages over HTTP and keeps the last copy of each in a
// CacheDB.
//
// Freshness policy:
//  1. no local copy, or an empty one: fetch unconditionally
//  2. local copy younger than maxAge: reuse it without any request
//  3. otherwise: conditional GET with the stored ETag / Last-Modified; a
//     304 reuses the local copy, a 2xx replaces it
type Cache struct {
	client      *http.Client
	db          *database.CacheDB
	userAgent   string
	headers     map[string]string
	maxBodySize int64
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Cache) {
		c.userAgent = ua
	}
}

// WithHeaders sets extra request headers, for example a session cookie.
func WithHeaders(headers map[string]string) Option {
	return func(c *Cache) {
		c.headers = headers
	}
}

// WithMaxBodySize sets the largest accepted response body. A longer body
// fails the fetch with ErrBodyTooLarge and is not cached.
func WithMaxBodySize(size int64) Option {
	return func(c *Cache) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a Cache. A nil db disables the local copy, so every call
// goes to the network.
func NewCache(client *http.Client, db *database.CacheDB, opts ...Option) *Cache {
	c := &Cache{
		client:      client,
		db:          db,
		userAgent:   "codexcrawl",
		headers:     map[string]string{},
		maxBodySize: 10 * 1024 * 1024, // 10MB
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Fetch returns the content of url, reusing the local copy when it is
// younger than maxAge. maxAge <= 0 never skips the request.
func (c *Cache) Fetch(ctx context.Context, url string, maxAge time.Duration) (*Result, error) {
	cached, err := c.lookup(ctx, url)
	if err != nil {
		return nil, err
	}

	now := c.now()
	if cached != nil && maxAge > 0 && now.Sub(cached.FetchedAt) < maxAge {
		c.logger.Debug("using cached page", "url", url, "age", now.Sub(cached.FetchedAt))
		return cachedResult(cached, false), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if cached != nil {
		setConditionalHeaders(req, cached)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		c.logger.Debug("page not modified", "url", url)
		etag, lastModified := resp.Header.Get("ETag"), resp.Header.Get("Last-Modified")
		if err := c.db.Touch(ctx, url, now, etag, lastModified); err != nil {
			return nil, err
		}
		cached.FetchedAt = now
		return cachedResult(cached, false), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	// One byte past the limit tells a page of exactly maxBodySize bytes
	// apart from a longer one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFetchFailed, url, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, &BodyTooLargeError{URL: url, Limit: c.maxBodySize}
	}

	c.logger.Debug("downloaded page", "url", url, "status", resp.StatusCode, "bytes", len(body))

	if c.db != nil {
		page := &database.Page{
			URL:          url,
			Body:         body,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			StatusCode:   resp.StatusCode,
			ContentType:  resp.Header.Get("Content-Type"),
			FetchedAt:    now,
		}
		if err := c.db.Put(ctx, page); err != nil {
			return nil, err
		}
	}

	return &Result{
		URL:        url,
		Body:       body,
		StatusCode: resp.StatusCode,
		Downloaded: true,
		FetchedAt:  now,
	}, nil
}

// lookup returns the usable local copy of url, or nil. Empty copies are
// treated as absent.
func (c *Cache) lookup(ctx context.Context, url string) (*database.Page, error) {
	if c.db == nil {
		return nil, nil
	}
	page, err := c.db.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if page == nil || len(page.Body) == 0 {
		return nil, nil
	}
	return page, nil
}

// setConditionalHeaders adds If-None-Match and If-Modified-Since headers
// when the local copy carries validators.
func setConditionalHeaders(req *http.Request, page *database.Page) {
	if page.ETag != "" {
		req.Header.Set("If-None-Match", page.ETag)
	}
	if page.LastModified != "" {
		req.Header.Set("If-Modified-Since", page.LastModified)
	}
}

func cachedResult(page *database.Page, downloaded bool) *Result {
	return &Result{
		URL:        page.URL,
		Body:       page.Body,
		StatusCode: page.StatusCode,
		Downloaded: downloaded,
		FetchedAt:  page.FetchedAt,
	}
}
