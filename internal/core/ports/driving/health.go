package driving

import (
	"context"
	"time"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// HealthChecker verifies the running stack end to end.
type HealthChecker interface {
	// Check probes every service once, concurrently, and returns the
	// aggregate. A degraded stack is a result, not an error.
	Check(ctx context.Context) (*domain.StackHealth, error)

	// Wait re-checks until the stack is healthy or the timeout
	// elapses. Returns the last observed health either way; the error
	// is domain.ErrStackUnhealthy on timeout.
	Wait(ctx context.Context, timeout time.Duration) (*domain.StackHealth, error)
}
