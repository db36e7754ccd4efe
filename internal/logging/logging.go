// Package logging wires up the structured logger every extraction run
// shares: a human-readable console handler, always present, fanned out
// to a JSON handler when a log file is requested so a large run can be
// replayed later without rerunning the extraction.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New builds the logger used by cmd/extract and cmd/inspect. verbose raises
// the console handler to Debug level (skipped-DIE and missing-file-table
// diagnostics, per the extractor's "report and continue" policy); logFile,
// when non-empty, adds a JSON sink at the given path.
func New(verbose bool, logFile string) (*slog.Logger, error) {
	consoleLevel := slog.LevelInfo
	if verbose {
		consoleLevel = slog.LevelDebug
	}

	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: consoleLevel})

	var handler slog.Handler = console
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		json := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
		handler = slogmulti.Fanout(console, json)
	}

	return slog.New(handler), nil
}

// Discard returns a logger that drops everything, for call sites (tests,
// library use) that don't want console noise.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
