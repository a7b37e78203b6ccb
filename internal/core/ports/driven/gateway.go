package driven

import (
	"context"
	"time"
)

// GatewayClient issues benchmark requests against the gateway's
// OpenAI-compatible chat completion endpoint.
type GatewayClient interface {
	// StreamFirstToken sends a streaming chat completion and returns
	// the time from request start to the first streamed chunk, plus the
	// total request duration.
	StreamFirstToken(ctx context.Context, req ChatRequest) (ttft, total time.Duration, err error)

	// Complete sends a non-streaming chat completion and returns the
	// token usage reported by the gateway and the wall time.
	Complete(ctx context.Context, req ChatRequest) (*CompletionStats, error)
}

// ChatRequest is the minimal chat completion request the benchmarks
// need.
type ChatRequest struct {
	// Model is the served model name.
	Model string

	// Prompt is the single user message content.
	Prompt string

	// MaxTokens caps the generated tokens.
	MaxTokens int
}

// CompletionStats is the outcome of a non-streaming completion.
type CompletionStats struct {
	// PromptTokens is usage.prompt_tokens from the gateway response.
	PromptTokens int

	// CompletionTokens is usage.completion_tokens.
	CompletionTokens int

	// Duration is the request wall time.
	Duration time.Duration
}
