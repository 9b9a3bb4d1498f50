// Package logging builds the zerolog logger. A TUI owns stdout, so logs only ever go to a
// size-rotated file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// File is the log path. Empty disables logging unless Debug is set, in which case
	// DefaultFile is used.
	File  string
	Debug bool
}

// DefaultFile is $XDG_STATE_HOME/sortable/sortable.log, falling back to ~/.local/state.
func DefaultFile() (string, error) {
	if d := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); d != "" {
		return filepath.Join(d, "sortable", "sortable.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "sortable", "sortable.log"), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the logger and the closer of its sink.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	path := strings.TrimSpace(opts.File)
	if path == "" && opts.Debug {
		p, err := DefaultFile()
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		path = p
	}
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(sink).Level(level).With().Timestamp().Logger()
	return l, sink, nil
}
