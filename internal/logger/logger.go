// Package logger builds the zerolog logger each binary writes with.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level   string // debug, info, warn, error
	Pretty  bool   // console output for local runs
	Service string
	Output  io.Writer
}

// New returns a JSON logger stamped with time and service name. An unknown
// level falls back to info.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.Service != "" {
		zl = zl.Str("service", cfg.Service)
	}
	return zl.Logger()
}
