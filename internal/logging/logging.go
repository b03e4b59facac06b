// ABOUTME: zerolog setup for the demo player
// ABOUTME: Console or file output with optional debug level
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewConsole returns a human-readable stderr logger.
func NewConsole(debug bool) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}, debug)
}

// NewWriter returns a logger writing structured lines to w; used when
// the TUI owns the terminal.
func NewWriter(w io.Writer, debug bool) zerolog.Logger {
	return newLogger(w, debug)
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
