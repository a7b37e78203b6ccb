package domain

import "time"

// BenchKind identifies a benchmark variant.
type BenchKind string

// Benchmark variants.
const (
	// BenchTTFT measures time to first streamed token with a large
	// synthetic prompt (prefill latency).
	BenchTTFT BenchKind = "ttft"

	// BenchGeneration measures completion tokens per second on a
	// non-streaming request (decode throughput).
	BenchGeneration BenchKind = "generation"
)

// BenchResult is one recorded benchmark run against the gateway.
type BenchResult struct {
	// ID is the unique run identifier.
	ID string

	// Kind is the benchmark variant.
	Kind BenchKind

	// Model is the served model name the run addressed.
	Model string

	// PromptTokens is the approximate prompt size in tokens, when the
	// gateway reported usage; 0 for streaming runs without usage.
	PromptTokens int

	// CompletionTokens is the number of generated tokens (generation
	// runs only).
	CompletionTokens int

	// TTFT is the time to first streamed chunk (ttft runs only).
	TTFT time.Duration

	// Duration is the total wall time of the request.
	Duration time.Duration

	// TokensPerSecond is CompletionTokens divided by Duration
	// (generation runs only).
	TokensPerSecond float64

	// RanAt is when the run started.
	RanAt time.Time
}

// BenchOptions parameterises a benchmark run.
type BenchOptions struct {
	// Iterations is the number of timed requests; results are recorded
	// per iteration.
	Iterations int

	// PayloadRepeat controls the synthetic prompt size for ttft runs:
	// the log-line payload is repeated this many times.
	PayloadRepeat int

	// MaxTokens caps the generated tokens per request.
	MaxTokens int

	// Prompt overrides the default generation prompt. Ignored by ttft
	// runs, which always use the synthetic payload.
	Prompt string
}

// DefaultBenchOptions returns the benchmark parameters used when flags
// are not given: a single iteration, a ~250k-token synthetic prompt for
// ttft, and a short essay for generation runs.
func DefaultBenchOptions() BenchOptions {
	return BenchOptions{
		Iterations:    1,
		PayloadRepeat: 5500,
		MaxTokens:     10,
		Prompt:        "Write a 500-word essay about the future of Linux kernels.",
	}
}
