// Package logger sets up structured logging for pbxpatch.
// It uses Go's log/slog package, writing to stderr and optionally to a
// rotating log file via lumberjack.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration options.
type Config struct {
	// Dir is where pbxpatch.log is written. If empty, only stderr is used.
	Dir string `koanf:"dir"`

	// Debug enables debug-level logging.
	Debug bool `koanf:"debug"`

	// JSON enables JSON output format. If false, text format is used.
	JSON bool `koanf:"json"`
}

// New builds a logger writing to out and, when cfg.Dir is set, to a rotating
// file in that directory. The returned func closes the log file.
func New(out io.Writer, cfg Config) (*slog.Logger, func() error, error) {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}

	writer := out
	closeFn := func() error { return nil }
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, nil, err
		}

		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "pbxpatch.log"),
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		writer = io.MultiWriter(out, logFile)
		closeFn = logFile.Close
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	return slog.New(handler), closeFn, nil
}
