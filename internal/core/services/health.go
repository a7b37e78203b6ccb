package services

import (
	"context"
	"sync"
	"time"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
	"github.com/bunker-stack/bunkerctl/internal/logger"
)

// Ensure HealthService implements the interface.
var _ driving.HealthChecker = (*HealthService)(nil)

// waitPollInterval is the delay between rounds while waiting for the
// stack to become healthy. The engine can take minutes to load a large
// model, so rounds are cheap and patient.
const waitPollInterval = 5 * time.Second

// HealthService probes every stack service and aggregates the result.
type HealthService struct {
	probers []driven.Prober
	poll    time.Duration
}

// NewHealthService creates a health service over the given probers,
// one per stack service.
func NewHealthService(probers []driven.Prober) *HealthService {
	return &HealthService{probers: probers, poll: waitPollInterval}
}

// Check probes every service once, concurrently, and returns the
// aggregate in catalogue order. A degraded stack is a result, not an
// error.
func (s *HealthService) Check(ctx context.Context) (*domain.StackHealth, error) {
	results := make([]domain.ServiceHealth, len(s.probers))

	var wg sync.WaitGroup
	for i, p := range s.probers {
		wg.Add(1)
		go func(i int, p driven.Prober) {
			defer wg.Done()
			results[i] = p.Probe(ctx)
		}(i, p)
	}
	wg.Wait()

	health := &domain.StackHealth{Services: results}
	for _, h := range results {
		if !h.Healthy() {
			logger.Debug("%s: %s (%s)", h.Service, h.State, h.Detail)
		}
	}
	return health, nil
}

// Wait re-checks until the stack is healthy or the timeout elapses.
// The last observed health is returned either way.
func (s *HealthService) Wait(ctx context.Context, timeout time.Duration) (*domain.StackHealth, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		health, err := s.Check(ctx)
		if err != nil {
			return nil, err
		}
		if health.Healthy() {
			return health, nil
		}
		if time.Now().After(deadline) {
			return health, domain.ErrStackUnhealthy
		}

		logger.Debug("stack not healthy yet, rechecking in %s", s.poll)
		select {
		case <-ctx.Done():
			return health, ctx.Err()
		case <-ticker.C:
		}
	}
}
