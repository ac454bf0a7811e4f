package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages can take a logger without importing zerolog.
type Logger = zerolog.Logger

// NewLogger builds the process logger. Development gets a console writer at debug level,
// anything else gets JSON at info level.
func NewLogger(appEnv string) Logger {
	return newLogger(appEnv, os.Stdout)
}

func newLogger(appEnv string, out io.Writer) Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}

// Component tags every line of logger with the emitting component.
func Component(logger Logger, name string) Logger {
	return logger.With().Str("component", name).Logger()
}

// Nop discards everything.
func Nop() Logger {
	return zerolog.Nop()
}
