// Package shared holds the bits common to every pdbench subcommand:
// logger construction.
package shared

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/rs/zerolog"
)

// SetupProgressLogger builds the human-facing progress logger written to
// stderr while a run is in flight.
func SetupProgressLogger(debug bool) *charmlog.Logger {
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}
	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{Level: level})
}

// SetupStructuredLogger builds the structured zerolog logger passed down
// into internal packages (registry, roundlog, runner, aggregate).
func SetupStructuredLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
