// Package logging builds the single zerolog.Logger used by the MEF-XML
// loader, the validator, and the CLI (component M, SPEC_FULL.md §4.M).
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds a logger writing to w at the given level: console-formatted
// when w is a TTY, JSON otherwise. Pass os.Stderr for the CLI's own logger.
func New(w *os.File, level zerolog.Level) zerolog.Logger {
	var out io.Writer = w
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a settings-file/flag level name to a zerolog.Level,
// defaulting to Info on an unrecognized name rather than erroring — logging
// configuration is never fatal to an analysis run.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
