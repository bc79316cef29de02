// Package logging writes structured JSON logs to a size-rotated file.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileName    = "ocrclick.slog"
	maxSizeMB   = 16
	maxBackups  = 3
	maxAgeDays  = 30
	defaultPerm = 0o755
)

// Logger is the handle passed to every component. A nil *Logger discards
// everything, so collaborators never need a guard.
type Logger struct {
	sl   *slog.Logger
	path string
}

// New logs to dir/ocrclick.slog. An empty dir falls back to the user
// config directory.
func New(level, dir string) *Logger {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "ocrclick")
	}
	_ = os.MkdirAll(dir, defaultPerm)

	rot := &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	l := NewWithWriter(level, rot)
	l.path = rot.Filename
	l.Info("logger ready", "pid", os.Getpid(), "level", ParseLevel(level).String())
	return l
}

// NewWithWriter logs JSON records at level and above to w.
func NewWithWriter(level string, w io.Writer) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{sl: slog.New(h)}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return NewWithWriter("error", io.Discard)
}

// ParseLevel accepts slog level names in any case; unknown names mean info.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Path is the log file New opened, empty for writer-backed loggers.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sl: l.sl.With(args...), path: l.path}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *Logger) log(level slog.Level, msg string, args []any) {
	if l == nil {
		return
	}
	l.sl.Log(context.Background(), level, msg, args...)
}
