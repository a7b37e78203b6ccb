package driven

import (
	"context"
	"time"
)

// ProcessCleaner removes leftovers of a previous engine run before a
// new start: stray inference processes that escaped container teardown
// and stale shared-memory segments under /dev/shm.
//
// Cleanup is best effort. Individual failures are reported in the
// CleanupReport, never as an error that would abort a start.
type ProcessCleaner interface {
	// KillStray terminates processes whose command line matches any of
	// the given patterns. Matched processes receive SIGTERM, then
	// SIGKILL after the grace period.
	KillStray(ctx context.Context, patterns []string, grace time.Duration) (*CleanupReport, error)

	// SweepSharedMemory removes files under the shared-memory directory
	// whose names carry any of given prefixes.
	SweepSharedMemory(prefixes []string) (*CleanupReport, error)
}

// CleanupReport summarises one cleanup pass.
type CleanupReport struct {
	// Terminated lists PIDs that exited after SIGTERM.
	Terminated []int32

	// Killed lists PIDs that needed SIGKILL.
	Killed []int32

	// Removed lists deleted shared-memory paths.
	Removed []string

	// Skipped lists targets that could not be handled, with reasons.
	Skipped []string
}

// Empty reports whether the pass found nothing to clean.
func (r *CleanupReport) Empty() bool {
	return len(r.Terminated) == 0 && len(r.Killed) == 0 && len(r.Removed) == 0
}
