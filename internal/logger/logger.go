// Package logger provides the configured zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a service-tagged logger writing to stdout and, when logFile is
// non-empty, to that file as well. A file that cannot be opened degrades to
// stdout-only logging.
func New(serviceName, logFile string) zerolog.Logger {
	var w zerolog.LevelWriter = zerolog.MultiLevelWriter(os.Stdout)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			w = zerolog.MultiLevelWriter(os.Stdout, f)
		}
	}
	return zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
