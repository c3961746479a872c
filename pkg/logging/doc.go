// Package logging provides structured logging configuration for reqguard.
//
// This package wraps log/slog to provide consistent logging across the
// engine, the HTTP middleware and the CLI. It supports configurable log
// levels and output formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("gateway started", "addr", ":8080")
//
// # Output Formats
//
//   - Text: Human-readable format for development
//   - JSON: Structured format for log aggregation systems
//
// Setting Config.Audit duplicates every record as JSON lines into a second
// writer, independent of the main format.
//
// # Integration
//
// Components should accept a *slog.Logger in their constructor or via an
// option. If no logger is provided, use logging.Nop() for a no-op logger.
package logging
