// Package logger builds the structured diagnostic logger shared by the CLI
// and the development server. Diagnostics go to stderr so that command
// output on stdout stays machine readable.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// New creates new Logger writing text records at or above level to w.
func New(w io.Writer, level slog.Level) *Logger {
	lv := &slog.LevelVar{}
	lv.Set(level)
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})),
		level:  lv,
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, slog.LevelError)
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level reports the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// ParseLevel accepts debug, info, warn or error, case-insensitively.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
