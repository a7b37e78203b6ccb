package driven

import (
	"context"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// BenchStore persists benchmark runs for `bench history`.
type BenchStore interface {
	// Record stores one benchmark result.
	Record(ctx context.Context, result *domain.BenchResult) error

	// List returns the most recent results, newest first, up to limit.
	List(ctx context.Context, limit int) ([]domain.BenchResult, error)

	// Close releases the underlying database.
	Close() error
}
