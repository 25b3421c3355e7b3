package executor

import "context"

// Executor runs external commands. It exists so command-backed components
// can be tested with a fake.
type Executor interface {
	// Execute runs name with args and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Available reports whether name resolves to an executable.
	Available(name string) bool
}
