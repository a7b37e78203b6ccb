package probe

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// Ensure PostgresProber implements the interface.
var _ driven.Prober = (*PostgresProber)(nil)

// PostgresProber checks the database by opening a connection and
// pinging it. A TCP-level check is not enough: PostgreSQL accepts
// connections before it finishes recovery, and the tracing service
// needs real queries.
type PostgresProber struct {
	dsn     string
	timeout time.Duration
}

// NewPostgresProber creates a prober for the given connection string.
func NewPostgresProber(dsn string) *PostgresProber {
	return &PostgresProber{
		dsn:     dsn,
		timeout: defaultTimeout,
	}
}

// Service identifies the probed service.
func (p *PostgresProber) Service() domain.ServiceName {
	return domain.ServiceDatabase
}

// Probe connects and pings.
func (p *PostgresProber) Probe(ctx context.Context) domain.ServiceHealth {
	health := domain.ServiceHealth{
		Service:   domain.ServiceDatabase,
		CheckedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	conn, err := pgx.Connect(ctx, p.dsn)
	if err != nil {
		health.State = domain.HealthUnreachable
		health.Detail = err.Error()
		return health
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if err := conn.Ping(ctx); err != nil {
		health.State = domain.HealthUnhealthy
		health.Detail = err.Error()
		return health
	}

	health.Latency = time.Since(start)
	health.CheckedAt = time.Now()
	health.State = domain.HealthHealthy
	return health
}
