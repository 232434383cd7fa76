package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func logLevel() zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// setupLogging points the global logger at w in human-readable form.
func setupLogging(w io.Writer) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(logLevel()).
		With().Timestamp().Logger()
}
