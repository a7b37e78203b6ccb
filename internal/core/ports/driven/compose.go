package driven

import (
	"context"
	"io"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// ComposeRunner invokes the container orchestrator for the stack
// project. Implementations execute `docker compose` (or a configured
// substitute) with the stack's compose file, project name, and the
// resolved environment.
type ComposeRunner interface {
	// Up starts the stack detached. The env slice is the resolved
	// KEY=VALUE set substituted into the compose file.
	Up(ctx context.Context, env []string) error

	// Down stops and removes the stack's containers. When volumes is
	// true, named volumes are removed as well.
	Down(ctx context.Context, env []string, volumes bool) error

	// Logs streams service logs to w. An empty service selects all
	// services. When follow is true, the call blocks until ctx is
	// cancelled or the orchestrator exits.
	Logs(ctx context.Context, env []string, service domain.ServiceName, follow bool, w io.Writer) error

	// PS reports the current state of every catalogue service.
	// Services without a container are returned with StateMissing.
	PS(ctx context.Context, env []string) ([]domain.ServiceStatus, error)
}
