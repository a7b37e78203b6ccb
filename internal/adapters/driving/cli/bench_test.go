package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

func TestBenchTTFTCmd(t *testing.T) {
	withFakes(t, nil, nil)
	benchmarker = &fakeBenchmarker{results: []domain.BenchResult{
		{Kind: domain.BenchTTFT, TTFT: 1400 * time.Millisecond, Duration: 2 * time.Second},
	}}

	out, err := execute(t, "bench", "ttft")

	require.NoError(t, err)
	assert.Contains(t, out, "ttft 1.4s")
	assert.Contains(t, out, "total 2s")
}

func TestBenchGenCmd(t *testing.T) {
	withFakes(t, nil, nil)
	benchmarker = &fakeBenchmarker{results: []domain.BenchResult{
		{Kind: domain.BenchGeneration, CompletionTokens: 600, Duration: 12 * time.Second, TokensPerSecond: 50},
	}}

	out, err := execute(t, "bench", "gen")

	require.NoError(t, err)
	assert.Contains(t, out, "600 tokens in 12s")
	assert.Contains(t, out, "50.00 tokens/s")
}

func TestBenchGenCmd_GatewayDown(t *testing.T) {
	withFakes(t, nil, nil)
	benchmarker = &fakeBenchmarker{err: domain.ErrStackUnhealthy}

	_, err := execute(t, "bench", "gen")

	assert.ErrorIs(t, err, domain.ErrStackUnhealthy)
}

func TestBenchHistoryCmd(t *testing.T) {
	withFakes(t, nil, nil)
	benchmarker = &fakeBenchmarker{results: []domain.BenchResult{
		{
			Kind:             domain.BenchGeneration,
			CompletionTokens: 512,
			TokensPerSecond:  42.67,
			RanAt:            time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
		{
			Kind:  domain.BenchTTFT,
			TTFT:  1400 * time.Millisecond,
			RanAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		},
	}}

	out, err := execute(t, "bench", "history")

	require.NoError(t, err)
	assert.Contains(t, out, "generation")
	assert.Contains(t, out, "42.67")
	assert.Contains(t, out, "ttft")
	assert.Contains(t, out, "1.4s")
}

func TestBenchHistoryCmd_Empty(t *testing.T) {
	withFakes(t, nil, nil)
	benchmarker = &fakeBenchmarker{}

	out, err := execute(t, "bench", "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No recorded runs.")
}
