// Package llm provides the remote-model client used by the primary
// analysis path. It abstracts multiple providers (OpenAI, Anthropic,
// Google) behind a common interface and composes cross-cutting concerns -
// timeouts, rate limiting, metrics, tracing - through a middleware chain.
//
// The client is constructed once at process start and never mutated; all
// evaluators share the same read-only handle. Retries are deliberately not
// part of this package: a single failed request falls through to the
// rule-based path so latency stays bounded.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.ClientConfig{
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	    Model:   "gpt-4",
//	    Timeout: 8 * time.Second,
//	})
//	response, err := client.Complete(ctx, prompt, nil)
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/raftai/engine/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt to the provider and returns the response
	// text together with input and output token counts.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the configured model name.
	GetModel() string
}

// TokenEstimator approximates token counts when the provider does not
// report them, for cost accounting and rate limiting.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// Middleware wraps a CoreLLM to add cross-cutting behavior without
// touching provider logic.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds everything needed to construct a provider client.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// Model selects the provider model. Empty uses the provider default.
	Model string

	// BaseURL overrides the provider's default endpoint. Leave empty to
	// use the default.
	BaseURL string

	// Timeout bounds each request. The surrounding service always sets
	// this; a hung remote call must not block an analysis indefinitely.
	Timeout time.Duration

	// TokenEstimator supplies custom token counting. Nil uses a simple
	// character-based heuristic.
	TokenEstimator TokenEstimator

	// Middleware is applied outermost-first in the order given.
	Middleware []Middleware
}

// Client implements ports.LLMClient over a middleware-wrapped provider.
type Client struct {
	core      CoreLLM
	estimator TokenEstimator
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient assembles a provider with its middleware chain.
// The provider name must be one of the registered factories
// ("openai", "anthropic", "google").
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", providerType, err)
	}

	// Apply middleware in reverse so the first entry is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	estimator := config.TokenEstimator
	if estimator == nil {
		estimator = &SimpleTokenEstimator{}
	}

	return &Client{core: core, estimator: estimator}, nil
}

// Complete sends a prompt and returns the response text, discarding token
// usage. Token counts still flow through the metrics middleware.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the response with input and
// output token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens approximates the token count of text.
func (c *Client) EstimateTokens(text string) (int, error) {
	return c.estimator.EstimateTokens(text), nil
}

// GetModel returns the model configured on the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// SimpleTokenEstimator assumes roughly four characters per token, which is
// accurate enough for rate limiting and cost estimates on English text.
type SimpleTokenEstimator struct{}

// EstimateTokens returns an approximate token count.
func (e *SimpleTokenEstimator) EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// ProviderFactory creates a CoreLLM from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider under a name for use with
// NewClient. Providers in this package register themselves in init.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
