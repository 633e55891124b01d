// Package logging provides structured logging utilities for the Sentinel
// installer components.
//
// It wraps the standard library slog package with installer-specific
// defaults: JSON output to stderr, module/version context injection,
// environment-based level configuration (LOG_LEVEL), and source location
// tracking for debug logs.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("sentinelctl", "v1.0.0")
//	    slog.Info("starting install", "port", 5002)
//	}
//
// Setting an explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("sentinelctl", "v1.0.0", "debug")
//
// If LOG_LEVEL is not set and no explicit level is given, the level
// defaults to INFO.
package logging
