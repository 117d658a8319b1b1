// Package logging builds the zerolog loggers used by commands and the dashboard.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
}

// New returns a human-readable logger writing to w.
// Debug enables debug level, otherwise only info and above are written.
func New(w io.Writer, debug bool) zerolog.Logger {
	cw := zerolog.NewConsoleWriter()
	cw.Out = w
	cw.TimeFormat = time.DateTime
	cw.NoColor = true

	return zerolog.New(cw).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
}

// NewFile returns a JSON logger appending to path. The caller closes the file.
func NewFile(path string, debug bool) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	logger := zerolog.New(f).
		Level(level(debug)).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	return logger, f, nil
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
