// Package config provides configuration structures and utilities for
// codexcrawl: crawl targets, the category allow-list, cache windows, the
// request delay and the result store location.
package config
