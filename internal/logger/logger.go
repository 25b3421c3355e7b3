package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

type implLogger struct {
	logger *log.Logger
}

// New creates a Logger writing to stdout.
func New(level, format string) Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w. Format is one of text, json,
// logfmt or auto; auto picks text on a terminal and logfmt otherwise.
func NewWithWriter(w io.Writer, level, format string) Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           parseLevel(level),
		Formatter:       pickFormatter(w, format),
	})
	return &implLogger{logger: l}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return NewWithWriter(io.Discard, "error", "logfmt")
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func pickFormatter(w io.Writer, format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	case "text":
		return log.TextFormatter
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return log.TextFormatter
	}
	return log.LogfmtFormatter
}

func (l *implLogger) forContext(ctx context.Context) *log.Logger {
	if id := RequestID(ctx); id != "" {
		return l.logger.With("request_id", id)
	}
	return l.logger
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.forContext(ctx).Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.forContext(ctx).Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.forContext(ctx).Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.forContext(ctx).Errorf(msg, args...)
}

func (l *implLogger) With(keyvals ...interface{}) Logger {
	return &implLogger{logger: l.logger.With(keyvals...)}
}
