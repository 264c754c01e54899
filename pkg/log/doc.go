// Package log provides structured decode tracing for parsecan.
//
// This package defines the Logger interface and Event type for capturing
// every frame a decoder sees, together with its decoded fields or the
// reason it was not decoded. It is separate from operational logging
// (slog): a trace is a complete machine-readable record of a decode
// session for later inspection.
//
// # Basic Usage
//
// Tools configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to a binary file
//	logger, _ := log.NewFileLogger("session.clog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fileLogger)
//
// # File Format
//
// Trace files use CBOR encoding with the .clog extension. Each record is one
// Event with integer map keys. The canspec log subcommand views and filters
// them.
package log
