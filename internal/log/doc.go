// Package log builds the slog loggers used by codexcrawl.
//
// Every logger is wrapped in a RedactHandler so that request headers
// configured by the user (typically a session Cookie for EDSM) never reach
// log output, even in verbose mode.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, jsonLog)
//	logger.Debug("fetching listing", "url", u, "headers", cfg.Headers)
//	// headers=map[Cookie:***REDACTED***]
package log
