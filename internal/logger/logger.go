// Package logger builds the zerolog logger used for diagnostics.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is console or json.
	Format string
}

// New returns a logger writing to w. Console output is colored only on a terminal.
func New(w io.Writer, cfg Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel

	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
		}

		level = parsed
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
	case "", "console":
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: time.TimeOnly,
		}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}
