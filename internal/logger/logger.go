// Package logger provides the shared structured logger. The analysis core
// never logs; only the pipeline and collaborator layers do, with the logger
// passed in explicitly.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to stderr at the given level
func New(level string, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	if verbose && parsed < logrus.DebugLevel {
		parsed = logrus.DebugLevel
	}
	log.SetLevel(parsed)
	return log
}

// Discard returns a logger that writes nowhere, for tests and library use
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
