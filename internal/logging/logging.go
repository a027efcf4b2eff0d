// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global logger level and output format.
// Format is "json" or "console"; anything else picks console when stderr is a
// terminal and json otherwise.
func Configure(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(writer(format, os.Stderr)).With().Timestamp().Logger()
}

// Component returns a child of the global logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func writer(format string, out *os.File) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return out
	case "console":
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	if fi, err := out.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return out
}
