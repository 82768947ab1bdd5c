// Package log provides structured logging setup for the scraper.
//
// It builds a log/slog logger that writes human-readable colored output to
// the terminal and, unless disabled, plain text records to a log file.
// Fan-out between the two destinations is handled by TeeHandler, a small
// slog.Handler wrapper.
package log
