// Package crawler drives a codexcrawl run.
//
// A run has two phases. The taxonomy phase fetches the reference page,
// extracts the codex taxonomy and keeps only the categories matched by the
// allow-list. The listing phase then walks every kept entry id in taxonomy
// order, skips the ids already present in the result store, and pages
// through the search results of the others until a page comes back with
// fewer than the page size rows. Each completed entry is written to the
// store before the next one starts, so an interrupted run loses at most
// the entry in progress.
//
// Listing requests go through a Limiter. The default one enforces a fixed
// minimum interval between requests and never adapts to errors.
package crawler
