// Package logger builds the application's zerolog logger from configuration.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/config"
)

const permission = 0664

// Logger wraps the configured zerolog logger and the file it may write to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger from the Log config section. An unknown level falls back to info.
func New(cfg config.Log) (*Logger, error) {
	return build(cfg, os.Stdout)
}

func build(cfg config.Log, stdout io.Writer) (*Logger, error) {
	l := &Logger{}

	var w io.Writer = stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		l.file = f
		w = zerolog.MultiLevelWriter(w, zerolog.SyncWriter(f))
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	l.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
