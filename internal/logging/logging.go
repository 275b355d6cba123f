// Package logging configures the logrus logger. The dashboard owns the
// terminal, so log output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options select where and how much to log.
type Options struct {
	File  string // empty discards output
	Level string
}

// Setup builds a logger tagged with a fresh session id. The returned closer
// releases the log file. A log file that cannot be opened is reported
// through err while the logger falls back to discarding output.
func Setup(opts Options) (*logrus.Entry, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, levelErr := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if levelErr != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	entry := logger.WithField("session", uuid.NewString())

	logger.SetOutput(io.Discard)
	if strings.TrimSpace(opts.File) == "" {
		return entry, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return entry, nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return entry, nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)

	if levelErr != nil && opts.Level != "" {
		entry.WithField("level", opts.Level).Warn("unknown log level, using info")
	}
	return entry, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
