// Package httporacle adapts an HTTP chat-completion endpoint to the
// engine.Oracle signature, grounded in the teacher's
// internal/llm/enhanced_client.go and service_http.go. It is a
// convenience adapter, not part of the core engine: collect never
// imports this package.
package httporacle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Oracle calls a single chat-completion model over HTTP and returns the
// first choice's message content as the engine's response string.
type Oracle struct {
	client  *resty.Client
	baseURL string
	model   string
}

// Option configures an Oracle at construction time.
type Option func(*Oracle)

// WithTimeout overrides the per-request timeout (default 60s).
func WithTimeout(d time.Duration) Option {
	return func(o *Oracle) { o.client.SetTimeout(d) }
}

// WithRetry overrides the transport retry count and backoff (default 2
// retries, 1s-5s backoff), matching resty's built-in retry used by the
// teacher's NewEnhancedLLMClient.
func WithRetry(count int, wait, maxWait time.Duration) Option {
	return func(o *Oracle) {
		o.client.SetRetryCount(count).SetRetryWaitTime(wait).SetRetryMaxWaitTime(maxWait)
	}
}

// New builds an Oracle that authenticates with apiKey and posts chat
// completions for model to baseURL.
func New(baseURL, apiKey, model string, opts ...Option) *Oracle {
	client := resty.New().
		SetTimeout(60 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetAuthToken(apiKey)

	o := &Oracle{client: client, baseURL: baseURL, model: model}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Query implements engine.Oracle: prompt string -> response string.
func (o *Oracle) Query(ctx context.Context, prompt string) (string, error) {
	var parsed chatCompletionResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": o.model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		SetResult(&parsed).
		Post(o.baseURL)
	if err != nil {
		return "", fmt.Errorf("httporacle: request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("httporacle: model %s returned status %d: %s", o.model, resp.StatusCode(), resp.String())
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("httporacle: model %s returned no choices", o.model)
	}
	return parsed.Choices[0].Message.Content, nil
}
