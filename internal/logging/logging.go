package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the application logger writing human-readable output to
// stderr at the given level. Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}
