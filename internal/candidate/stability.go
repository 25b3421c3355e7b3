package candidate

import "time"

// IsStable reports whether the file has gone unmodified for at least minAge.
// Files arriving over network sync can be listed before their content is
// final; this is an age heuristic and cannot prove the writer is done.
func IsStable(c Candidate, minAge time.Duration, now time.Time) bool {
	return c.Age(now) >= minAge
}
