// Package database provides SQLite-based storage for fetched pages.
//
// The CacheDB keeps the last successful response for each URL together with
// the validators (ETag, Last-Modified) needed for conditional requests and
// the time it was fetched, so the fetch cache can decide whether a local
// copy is fresh enough to reuse.
//
// SQLite is used through modernc.org/sqlite: the cache is a single file, the
// driver is CGO-free, and WAL mode keeps reads cheap while one writer
// updates the cache.
package database
