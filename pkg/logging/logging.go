package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

// ConsoleLogger writes human-readable entries to stderr so that command output
// on stdout stays machine-readable.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	log.SetLevel(level)
	return log
}

// FileLogger appends JSON entries to path and mirrors them to stderr. The
// caller closes the returned file.
func FileLogger(level logrus.Level, path string) (*os.File, *logrus.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	log := logrus.New()
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(level)
	return f, log, nil
}
