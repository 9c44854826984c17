package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrInvalidReferenceURL is returned when the reference page URL is not
	// an absolute http(s) URL.
	ErrInvalidReferenceURL = errors.New("invalid reference URL: must be an absolute http(s) URL")

	// ErrMissingIDPlaceholder is returned when the listing URL template has
	// no {id} placeholder.
	ErrMissingIDPlaceholder = errors.New("invalid listing URL: missing {id} placeholder")

	// ErrInvalidListingURL is returned when the listing URL template does not
	// expand to an absolute http(s) URL.
	ErrInvalidListingURL = errors.New("invalid listing URL: must be an absolute http(s) URL")

	// ErrEmptyAllowList is returned when no category would be crawled.
	ErrEmptyAllowList = errors.New("empty allow-list: at least one category substring is required")

	// ErrEmptyAllowListEntry is returned when the allow-list contains an
	// empty string, which would match every category.
	ErrEmptyAllowListEntry = errors.New("invalid allow-list: entries must not be empty")

	// ErrInvalidPageSize is returned when the page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidRequestDelay is returned when the request delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidMaxAge is returned when a cache window is negative.
	ErrInvalidMaxAge = errors.New("invalid max age: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrNoResultsFile is returned when no result store path is set.
	ErrNoResultsFile = errors.New("no results file specified")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
