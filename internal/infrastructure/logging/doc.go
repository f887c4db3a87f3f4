// Package logging provides structured logging for trackcast.
//
// This package wraps Go's standard log/slog package so that every component
// logs with the same handler and default fields.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// Logs go to stderr by default. Stdout is reserved for snapshot echo.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("broadcasting", "address", cfg.Multicast.Address)
//	logger.Error("poll failed", "error", err)
package logging
