// Package logging builds the zerolog logger used by the command line tool.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at the given level. pretty selects
// the human-readable console writer over JSON lines.
func New(level string, pretty bool) (zerolog.Logger, error) {
	return NewWithWriter(os.Stderr, level, pretty)
}

func NewWithWriter(w io.Writer, level string, pretty bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("app", "fingerkin").Logger(), nil
}
