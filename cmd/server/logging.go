package main

import (
	"os"

	"github.com/rs/zerolog"
)

// setupLogger configures zerolog with pretty console output in debug mode
// and structured JSON output otherwise, the way lox-pokerforbots's CLI
// chooses between SetupLogger and SetupStructuredLogger.
func setupLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if debug {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}
