package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// Result describes a finished build.
type Result struct {
	Success      bool
	Target       Target
	ArtifactPath string
	// Configured reports whether the configure step ran instead of being skipped.
	Configured bool
	Elapsed    time.Duration
}

// Summary renders the success line printed after a build, e.g.
// "Built libstratum-ui.a in 0m 1.234s".
func (r *Result) Summary() string {
	return fmt.Sprintf("Built %s in %s", filepath.Base(r.ArtifactPath), FormatElapsed(r.Elapsed))
}

// FormatElapsed renders d as whole minutes and fractional seconds.
func FormatElapsed(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%dm %.3fs", minutes, seconds)
}
