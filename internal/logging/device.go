package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewDeviceLogger builds the logger used by the on-device binaries:
// JSON records to stderr and, when logFile is non-empty, to a
// size-rotated file so a long-running unit cannot fill the SD card.
func NewDeviceLogger(logFile string) Logger {
	var w io.Writer = os.Stderr
	if logFile != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	h := slog.NewJSONHandler(w, nil)
	return NewSlogLogger(slog.New(h))
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
