// Package model defines the core data structures used throughout codexcrawl.
//
// This package contains the following main types:
//   - Taxonomy: The ordered category -> (entry id -> display name) structure
//     scraped from the codex selector of a search page
//   - Record: The persisted outcome of fully crawling one entry id
//
// Models live in their own package because the extractor, the crawler, the
// result store and the reports all share them.
package model
