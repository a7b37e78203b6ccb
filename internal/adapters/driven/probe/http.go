// Package probe implements the health probes behind the check command.
//
// HTTP services are probed with resty (short per-attempt timeout, one
// retry); the database is probed with a direct pgx connect-and-ping.
// A probe never fails with an error for an unhealthy target - the
// outcome is always a domain.ServiceHealth.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// defaultTimeout bounds one probe attempt.
const defaultTimeout = 5 * time.Second

// Ensure HTTPProber implements the interface.
var _ driven.Prober = (*HTTPProber)(nil)

// HTTPProber checks one HTTP health endpoint.
type HTTPProber struct {
	service domain.ServiceName
	url     string
	client  *resty.Client
}

// HTTPOption customises an HTTPProber.
type HTTPOption func(*HTTPProber)

// WithBearerToken sends an Authorization header with every probe; the
// gateway requires the master key even on its health endpoints.
func WithBearerToken(token string) HTTPOption {
	return func(p *HTTPProber) {
		p.client.SetAuthToken(token)
	}
}

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(p *HTTPProber) {
		p.client.SetTimeout(d)
	}
}

// NewHTTPProber creates a prober for the given service and URL.
func NewHTTPProber(service domain.ServiceName, url string, opts ...HTTPOption) *HTTPProber {
	p := &HTTPProber{
		service: service,
		url:     url,
		client: resty.New().
			SetTimeout(defaultTimeout).
			SetRetryCount(1).
			SetRetryWaitTime(500 * time.Millisecond),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Service identifies the probed service.
func (p *HTTPProber) Service() domain.ServiceName {
	return p.service
}

// Probe performs the health check.
func (p *HTTPProber) Probe(ctx context.Context) domain.ServiceHealth {
	health := domain.ServiceHealth{
		Service:   p.service,
		CheckedAt: time.Now(),
	}

	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		health.State = domain.HealthUnreachable
		health.Detail = err.Error()
		return health
	}

	health.Latency = resp.Time()
	health.CheckedAt = time.Now()
	if resp.StatusCode() != http.StatusOK {
		health.State = domain.HealthUnhealthy
		health.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode())
		return health
	}

	health.State = domain.HealthHealthy
	return health
}
