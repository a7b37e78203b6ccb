package driving

import (
	"context"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// Benchmarker runs operator benchmarks against the gateway and keeps
// their history.
type Benchmarker interface {
	// TTFT measures time-to-first-token with a large synthetic prompt.
	// One result per iteration, recorded to history when a store is
	// configured.
	TTFT(ctx context.Context, opts domain.BenchOptions) ([]domain.BenchResult, error)

	// Generation measures decode throughput on non-streaming requests.
	Generation(ctx context.Context, opts domain.BenchOptions) ([]domain.BenchResult, error)

	// History returns recent recorded runs, newest first.
	History(ctx context.Context, limit int) ([]domain.BenchResult, error)
}
