package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Logger is a printf-style wrapper around zerolog
type Logger struct {
	zl        zerolog.Logger
	channelID string
}

// New creates a new logger with the given channel ID
func New(channelID string) *Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, channelID)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, channelID string) *Logger {
	ctx := zerolog.New(w).With().Timestamp()
	if channelID != "" {
		ctx = ctx.Str("channel", channelID)
	}
	return &Logger{
		zl:        ctx.Logger(),
		channelID: channelID,
	}
}

// With returns a child logger scoped to another channel, sharing the output
func (l *Logger) With(channelID string) *Logger {
	return &Logger{
		zl:        l.zl.With().Str("channel", channelID).Logger(),
		channelID: channelID,
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, v...))
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, v...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, v...))
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, v...))
}

// Global logger instance for application-wide logging
var Global = New("")

// SetGlobal sets the global logger
func SetGlobal(logger *Logger) {
	Global = logger
}

// SetLevel sets the minimum level for every logger, e.g. "debug" or "warn"
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
