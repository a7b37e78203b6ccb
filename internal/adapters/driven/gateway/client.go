// Package gateway implements the benchmark client against the
// gateway's OpenAI-compatible chat completion endpoint.
package gateway

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// streamDonePayload terminates an SSE completion stream.
const streamDonePayload = "[DONE]"

// Ensure Client implements the interface.
var _ driven.GatewayClient = (*Client)(nil)

// Client issues chat completions to the gateway.
type Client struct {
	client *resty.Client
}

// NewClient creates a client for the gateway at baseURL, authorised
// with the master key.
func NewClient(baseURL, masterKey string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetAuthToken(masterKey).
			SetHeader("Content-Type", "application/json"),
	}
}

// chatPayload is the request body for /v1/chat/completions.
type chatPayload struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream,omitempty"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionResponse is the subset of the non-streaming response the
// benchmarks read.
type completionResponse struct {
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// StreamFirstToken sends a streaming completion and measures the time
// to the first streamed chunk and the total stream duration.
func (c *Client) StreamFirstToken(ctx context.Context, req driven.ChatRequest) (time.Duration, time.Duration, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetBody(chatPayload{
			Model:     req.Model,
			Messages:  []chatMessage{{Role: "user", Content: req.Prompt}},
			Stream:    true,
			MaxTokens: req.MaxTokens,
		}).
		Post("/v1/chat/completions")
	if err != nil {
		return 0, 0, fmt.Errorf("streaming completion request: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return 0, 0, fmt.Errorf("streaming completion: gateway returned HTTP %d", resp.StatusCode())
	}

	var ttft time.Duration
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == streamDonePayload {
			break
		}
		if ttft == 0 {
			ttft = time.Since(start)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("reading completion stream: %w", err)
	}
	if ttft == 0 {
		return 0, 0, fmt.Errorf("completion stream ended without a data chunk")
	}
	return ttft, time.Since(start), nil
}

// Complete sends a non-streaming completion and returns the reported
// token usage.
func (c *Client) Complete(ctx context.Context, req driven.ChatRequest) (*driven.CompletionStats, error) {
	start := time.Now()

	var result completionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetBody(chatPayload{
			Model:     req.Model,
			Messages:  []chatMessage{{Role: "user", Content: req.Prompt}},
			MaxTokens: req.MaxTokens,
		}).
		Post("/v1/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("completion: gateway returned HTTP %d: %s",
			resp.StatusCode(), snippet(resp.String()))
	}

	return &driven.CompletionStats{
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		Duration:         time.Since(start),
	}, nil
}

// snippet truncates a response body for error messages.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
