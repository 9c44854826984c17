// Package fetch implements the fetch-by-URL primitive with a local cache.
//
// Cache.Fetch(ctx, url, maxAge) returns the page content and whether new
// content was downloaded. A local copy younger than maxAge is reused
// without a request; an older one is revalidated with a conditional GET, so
// an unchanged ETag avoids downloading the page again.
//
// Every failure wraps ErrFetchFailed: transport errors, non-2xx statuses,
// body read errors and bodies over the size limit.
package fetch
