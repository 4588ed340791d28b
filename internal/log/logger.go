package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog logger writing human-readable console output at the
// given level (debug, info, warn, error). Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
