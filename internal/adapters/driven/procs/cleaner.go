// Package procs implements the pre-start cleanup port.
//
// A crashed engine container can leave two kinds of debris on the
// host: orphaned inference processes (when the container shares the
// host PID namespace for NCCL) and stale shared-memory segments under
// /dev/shm that block the next engine start from mapping its cache.
// The cleaner removes both. Everything is best effort: a process that
// vanishes mid-scan or a file owned by another user is skipped and
// reported, never fatal.
package procs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// DefaultSharedMemoryDir is where the engine and NCCL place their
// segments.
const DefaultSharedMemoryDir = "/dev/shm"

// Ensure Cleaner implements the interface.
var _ driven.ProcessCleaner = (*Cleaner)(nil)

// Cleaner terminates stray processes and sweeps shared memory.
type Cleaner struct {
	shmDir string
}

// NewCleaner creates a cleaner. An empty shmDir selects /dev/shm; tests
// point it at a scratch directory.
func NewCleaner(shmDir string) *Cleaner {
	if shmDir == "" {
		shmDir = DefaultSharedMemoryDir
	}
	return &Cleaner{shmDir: shmDir}
}

// KillStray terminates processes whose command line contains any of the
// given patterns. SIGTERM first, SIGKILL for survivors of the grace
// period. The harness's own process tree is never touched.
func (c *Cleaner) KillStray(ctx context.Context, patterns []string, grace time.Duration) (*driven.CleanupReport, error) {
	report := &driven.CleanupReport{}
	if len(patterns) == 0 {
		return report, nil
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	self := int32(os.Getpid())
	var matched []*process.Process
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		if parent, err := p.PpidWithContext(ctx); err == nil && parent == self {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}
		if !matchesAny(cmdline, patterns) {
			continue
		}
		if err := p.TerminateWithContext(ctx); err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("pid %d: %v", p.Pid, err))
			continue
		}
		matched = append(matched, p)
	}

	deadline := time.Now().Add(grace)
	for _, p := range matched {
		if waitGone(ctx, p, deadline) {
			report.Terminated = append(report.Terminated, p.Pid)
			continue
		}
		if err := p.KillWithContext(ctx); err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("pid %d: kill: %v", p.Pid, err))
			continue
		}
		report.Killed = append(report.Killed, p.Pid)
	}
	return report, nil
}

// SweepSharedMemory removes files under the shared-memory directory
// whose names carry any of the given prefixes.
func (c *Cleaner) SweepSharedMemory(prefixes []string) (*driven.CleanupReport, error) {
	report := &driven.CleanupReport{}
	entries, err := os.ReadDir(c.shmDir)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return nil, fmt.Errorf("reading %s: %w", c.shmDir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !hasAnyPrefix(name, prefixes) {
			continue
		}
		path := filepath.Join(c.shmDir, name)
		if err := os.RemoveAll(path); err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		report.Removed = append(report.Removed, path)
	}
	return report, nil
}

// waitGone polls until the process exits or the deadline passes.
func waitGone(ctx context.Context, p *process.Process, deadline time.Time) bool {
	for time.Now().Before(deadline) {
		running, err := p.IsRunningWithContext(ctx)
		if err != nil || !running {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(100 * time.Millisecond):
		}
	}
	running, err := p.IsRunningWithContext(ctx)
	return err != nil || !running
}

func matchesAny(cmdline string, patterns []string) bool {
	lower := strings.ToLower(cmdline)
	for _, pat := range patterns {
		if pat != "" && strings.Contains(lower, strings.ToLower(pat)) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
