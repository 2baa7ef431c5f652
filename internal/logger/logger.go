// Package logger builds the slog loggers used by the voicestudio binaries.
//
// Development logs go to a colored tint console at debug level. Production
// logs are JSON at info level. Either can additionally be written to a
// rotated log file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/voicestudio/internal/env"
	"github.com/ekisa-team/voicestudio/internal/xfs"
)

type options struct {
	level      *slog.Level
	out        io.Writer
	logFile    string
	logToFile  bool
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

// Option configures New.
type Option func(*options)

// WithLogToFile enables or disables the rotated file sink.
func WithLogToFile(enabled bool) Option {
	return func(o *options) { o.logToFile = enabled }
}

// WithLogFile sets the path of the rotated log file.
func WithLogFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// WithLevel overrides the environment's default level.
func WithLevel(level string) Option {
	return func(o *options) {
		if l, ok := ParseLevel(level); ok {
			o.level = &l
		}
	}
}

// WithOutput replaces the console writer (os.Stderr by default).
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// New creates a logger for the given environment.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	o := &options{
		out:        os.Stderr,
		logFile:    "logs/voicestudio.log",
		maxSizeMB:  20,
		maxBackups: 5,
		maxAgeDays: 14,
	}
	for _, opt := range opts {
		opt(o)
	}

	level := slog.LevelInfo
	if environment.IsDevelopment() {
		level = slog.LevelDebug
	}
	if o.level != nil {
		level = *o.level
	}

	var console slog.Handler
	if environment.IsDevelopment() {
		console = tint.NewHandler(o.out, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		console = slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: level})
	}

	if !o.logToFile || o.logFile == "" {
		return slog.New(console)
	}

	path := xfs.ExpandTilde(o.logFile)
	if err := xfs.EnsureParentDir(path); err != nil {
		l := slog.New(console)
		l.Warn("Log file disabled", "path", path, "error", err)
		return l
	}

	file := slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    o.maxSizeMB,
		MaxBackups: o.maxBackups,
		MaxAge:     o.maxAgeDays,
		Compress:   true,
	}, &slog.HandlerOptions{Level: level})

	return slog.New(fanout{console, file})
}

// ParseLevel converts debug, info, warn or error into a slog.Level.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
