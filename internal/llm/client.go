// Package llm wraps an OpenAI-compatible chat completion client for the two
// pipeline stages that need model calls: the LM-modify/LM-rewrite bug
// generators (internal/buggen) and the issue generator's llm mode
// (internal/issuegen).
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/swesmith-go/synthesis/internal/transport"
)

// apiClient is the subset of *openai.Client this package calls. Interface
// for testing — CreateChatCompletion is expensive/non-deterministic to run
// for real in a unit test.
type apiClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client issues chat completions against a single model, with retry applied
// to transient failures.
type Client struct {
	api   apiClient
	model string
	retry transport.RetryConfig
}

// New creates a Client backed by the real OpenAI-compatible API at baseURL
// (empty for the default OpenAI endpoint).
func New(apiKey, baseURL, model string, retry transport.RetryConfig) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, retry: retry}
}

// newWithAPI is used by tests to inject a fake apiClient.
func newWithAPI(api apiClient, model string, retry transport.RetryConfig) *Client {
	return &Client{api: api, model: model, retry: retry}
}

// Complete sends a single system+user turn and returns the model's reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := transport.DoValue(ctx, c.retry, func() (openai.ChatCompletionResponse, error) {
		r, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
		if err != nil {
			return openai.ChatCompletionResponse{}, classifyError(err)
		}
		return r, nil
	})
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm completion: model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError marks client errors (bad request, auth, not found) as
// permanent so transport.Do doesn't burn retries on a request that will
// never succeed. Rate limits (429) and server errors (5xx) stay retryable.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if e, ok := err.(*openai.APIError); ok {
		apiErr = e
	}
	if apiErr == nil {
		return err
	}
	if apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != 429 {
		return transport.Permanent(err)
	}
	return err
}
