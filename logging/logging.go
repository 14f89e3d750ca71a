package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const FileName = "kartsim.log"

// Options selects the log destination
type Options struct {
	Level   string
	Dir     string
	MaxSize int64     // Rotate to .old at open when the file is larger; 0 disables
	Console io.Writer // When set, logs go to a console writer instead of a file
}

// New builds the application logger
// The returned closer releases the log file, if one was opened
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	if opts.Console != nil {
		w := zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.TimeOnly}
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), nopCloser{}, nil
	}

	f, err := OpenFile(opts.Dir, opts.MaxSize)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f, nil
}

// OpenFile opens the log for appending, moving an oversized file to .old first
func OpenFile(dir string, maxSize int64) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)

	if maxSize > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > maxSize {
			if err := os.Rename(path, path+".old"); err != nil {
				return nil, fmt.Errorf("rotate log: %w", err)
			}
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
