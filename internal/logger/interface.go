package logger

import "context"

// Logger is the leveled logger shared by every component. Messages are
// printf-style; structured fields are attached with With.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})

	// With returns a child logger that adds keyvals to every line.
	With(keyvals ...interface{}) Logger
}
