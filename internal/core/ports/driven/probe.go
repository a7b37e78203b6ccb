package driven

import (
	"context"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// Prober checks one service's health endpoint. HTTP services and the
// database have separate implementations behind this interface.
type Prober interface {
	// Service identifies which stack service this prober targets.
	Service() domain.ServiceName

	// Probe performs a single health check attempt (implementations
	// may retry internally) and reports the outcome. Probe never
	// returns an error for an unhealthy service; errors are reserved
	// for misconfiguration of the prober itself.
	Probe(ctx context.Context) domain.ServiceHealth
}
