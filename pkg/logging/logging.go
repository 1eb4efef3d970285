// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options selects level and output format.
type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string
	// Format is auto, console or json. Auto picks console when the output is
	// a terminal.
	Format string
	// Out defaults to os.Stderr.
	Out io.Writer
}

// New returns a logger writing to opts.Out.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer
	switch opts.Format {
	case "json":
		w = out
	case "console":
		w = console(out, !isTerminal(out))
	case "", "auto":
		if isTerminal(out) {
			w = console(out, false)
		} else {
			w = out
		}
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func console(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: noColor}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
