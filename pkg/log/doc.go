// Package log provides Interticle's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by the standard library's
// slog through a bridge handler that routes records into our formatter and
// output pipeline, so output looks the same regardless of where a record
// came from.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"), log.Uint64("origin", 7))
//	l.Info("server started", log.Str("http", ":8080"))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text or JSON
// format, console or null output, redacted keys).
//
// # Interop
//
// Libraries that log through the standard library logger (Pebble, gRPC) are
// captured with RedirectStdLog.
package log
