package logger

import "context"

type requestIDKey struct{}

// WithRequestID tags ctx with the id of the current processing attempt.
// Loggers emit it as request_id and HTTP clients forward it as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the attempt id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
