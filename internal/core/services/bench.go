package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
	"github.com/bunker-stack/bunkerctl/internal/logger"
)

// Ensure BenchService implements the interface.
var _ driving.Benchmarker = (*BenchService)(nil)

// ttftPayloadLine is repeated to build the synthetic prefill prompt.
// One line is roughly 45 tokens of log-like text; the default repeat
// count lands near 250k prompt tokens.
const ttftPayloadLine = "TIMESTAMP: 2026-01-20 | MSG: PCIe_Gen5_Active\n"

// iterationInterval paces multi-iteration runs so the engine's KV
// cache settles between requests.
const iterationInterval = 2 * time.Second

// BenchService runs latency and throughput benchmarks against the
// gateway and records them for `bench history`.
type BenchService struct {
	gateway driven.GatewayClient
	store   driven.BenchStore
	model   string
	limiter *rate.Limiter
}

// NewBenchService creates a benchmark service. The store may be nil,
// in which case runs are not recorded.
func NewBenchService(gateway driven.GatewayClient, store driven.BenchStore, model string) *BenchService {
	return &BenchService{
		gateway: gateway,
		store:   store,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(iterationInterval), 1),
	}
}

// TTFT measures time-to-first-token: a streaming request with a large
// synthetic prompt, timed to the first streamed chunk.
func (s *BenchService) TTFT(ctx context.Context, opts domain.BenchOptions) ([]domain.BenchResult, error) {
	opts = withDefaults(opts)
	prompt := strings.Repeat(ttftPayloadLine, opts.PayloadRepeat)
	logger.Info("ttft benchmark: %d iterations, prompt ~%d chars", opts.Iterations, len(prompt))

	results := make([]domain.BenchResult, 0, opts.Iterations)
	for i := 0; i < opts.Iterations; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return results, err
		}

		ranAt := time.Now()
		ttft, total, err := s.gateway.StreamFirstToken(ctx, driven.ChatRequest{
			Model:     s.model,
			Prompt:    prompt,
			MaxTokens: opts.MaxTokens,
		})
		if err != nil {
			return results, fmt.Errorf("ttft iteration %d: %w", i+1, err)
		}

		result := domain.BenchResult{
			ID:       uuid.NewString(),
			Kind:     domain.BenchTTFT,
			Model:    s.model,
			TTFT:     ttft,
			Duration: total,
			RanAt:    ranAt,
		}
		results = append(results, result)
		s.record(ctx, &result)
	}
	return results, nil
}

// Generation measures decode throughput: a non-streaming request whose
// reported completion tokens are divided by wall time.
func (s *BenchService) Generation(ctx context.Context, opts domain.BenchOptions) ([]domain.BenchResult, error) {
	opts = withDefaults(opts)
	logger.Info("generation benchmark: %d iterations", opts.Iterations)

	results := make([]domain.BenchResult, 0, opts.Iterations)
	for i := 0; i < opts.Iterations; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return results, err
		}

		ranAt := time.Now()
		stats, err := s.gateway.Complete(ctx, driven.ChatRequest{
			Model:  s.model,
			Prompt: opts.Prompt,
		})
		if err != nil {
			return results, fmt.Errorf("generation iteration %d: %w", i+1, err)
		}

		result := domain.BenchResult{
			ID:               uuid.NewString(),
			Kind:             domain.BenchGeneration,
			Model:            s.model,
			PromptTokens:     stats.PromptTokens,
			CompletionTokens: stats.CompletionTokens,
			Duration:         stats.Duration,
			RanAt:            ranAt,
		}
		if stats.Duration > 0 {
			result.TokensPerSecond = float64(stats.CompletionTokens) / stats.Duration.Seconds()
		}
		results = append(results, result)
		s.record(ctx, &result)
	}
	return results, nil
}

// History returns recent recorded runs, newest first.
func (s *BenchService) History(ctx context.Context, limit int) ([]domain.BenchResult, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, limit)
}

// record persists one result when a store is configured. Recording
// failures do not fail the benchmark itself.
func (s *BenchService) record(ctx context.Context, result *domain.BenchResult) {
	if s.store == nil {
		return
	}
	if err := s.store.Record(ctx, result); err != nil {
		logger.Warn("record benchmark run: %v", err)
	}
}

// withDefaults fills zero-valued options from the defaults.
func withDefaults(opts domain.BenchOptions) domain.BenchOptions {
	defaults := domain.DefaultBenchOptions()
	if opts.Iterations <= 0 {
		opts.Iterations = defaults.Iterations
	}
	if opts.PayloadRepeat <= 0 {
		opts.PayloadRepeat = defaults.PayloadRepeat
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaults.MaxTokens
	}
	if opts.Prompt == "" {
		opts.Prompt = defaults.Prompt
	}
	return opts
}
