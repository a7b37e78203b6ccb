package driving

import (
	"context"
	"io"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// Lifecycle orchestrates the stack: the start/stop/restart/logs/status
// subcommands map one-to-one onto this interface.
type Lifecycle interface {
	// Start resolves configuration for profile, renders the gateway
	// config, runs pre-start cleanup, and brings the stack up
	// detached. An empty profile uses the configured default.
	Start(ctx context.Context, profile string) error

	// Stop brings the stack down. When volumes is true, named volumes
	// are removed too.
	Stop(ctx context.Context, volumes bool) error

	// Restart is Stop followed by Start with the same profile.
	Restart(ctx context.Context, profile string) error

	// Logs streams service logs to w. Empty service selects all.
	Logs(ctx context.Context, service string, follow bool, w io.Writer) error

	// Status reports the per-service container state.
	Status(ctx context.Context) ([]domain.ServiceStatus, error)
}
