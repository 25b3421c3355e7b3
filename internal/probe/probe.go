// Package probe measures audio duration locally with ffprobe. The processor
// uses it only when the STT endpoint does not report a duration.
package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/voice-ingest/pkg/executor"
)

// Prober reports the duration of an audio file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

type implProber struct {
	binary string
	exec   executor.Executor
}

// New returns a Prober running binary through exec, or nil when binary is
// empty or cannot be found.
func New(binary string, exec executor.Executor) Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" || !exec.Available(binary) {
		return nil
	}
	return &implProber{binary: binary, exec: exec}
}

func (p *implProber) Duration(ctx context.Context, path string) (float64, error) {
	out, err := p.exec.Execute(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"--", path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	value := strings.TrimSpace(out)
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", value, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("ffprobe duration: non-positive value %v", seconds)
	}
	return seconds, nil
}
