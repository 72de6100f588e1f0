// Package application wires the five evaluators behind a single service
// facade and owns runtime configuration. Callers construct a Service once
// at startup and reuse it for every analysis request.
package application

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/raftai/engine/internal/domain"
)

// DefaultRequestTimeout bounds each remote analysis call. A slow provider
// answer is treated like a failed one: the caller gets the deterministic
// verdict instead of waiting.
const DefaultRequestTimeout = 8 * time.Second

// DefaultRequestsPerSecond is the client-side rate limit applied to the
// remote provider.
const DefaultRequestsPerSecond = 10

var validate = validator.New()

// Config holds engine configuration. Provider and APIKey are optional:
// leaving either empty runs the engine in fallback-only mode, where every
// verdict comes from the rule-based path.
type Config struct {
	// Provider selects the LLM backend: openai, anthropic, or google.
	Provider string `validate:"omitempty,oneof=openai anthropic google"`

	// APIKey authenticates against the provider.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the provider endpoint, for proxies and tests.
	BaseURL string `validate:"omitempty,url"`

	// RequestTimeout bounds each remote call. Zero uses
	// DefaultRequestTimeout.
	RequestTimeout time.Duration `validate:"min=0"`

	// RequestsPerSecond rate-limits remote calls. Zero uses
	// DefaultRequestsPerSecond.
	RequestsPerSecond float64 `validate:"min=0"`

	// RubricPath points at an optional YAML file overriding the built-in
	// pitch scoring tables.
	RubricPath string

	// BatchConcurrency caps concurrent evaluations in batch calls. Zero
	// uses DefaultBatchConcurrency.
	BatchConcurrency int `validate:"min=0"`
}

// DefaultBatchConcurrency caps parallel evaluations inside one batch call.
const DefaultBatchConcurrency = 4

// Validate checks the configuration and applies defaults in place.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.BatchConcurrency == 0 {
		c.BatchConcurrency = DefaultBatchConcurrency
	}
	return nil
}

// FallbackOnly reports whether the engine will run without a remote
// client.
func (c *Config) FallbackOnly() bool {
	return c.Provider == "" || c.APIKey == ""
}

// LoadRubric returns the pitch scoring rubric for this configuration.
// A YAML file named by RubricPath overrides individual rows on top of the
// built-in tables; rows it does not mention keep their defaults.
func (c *Config) LoadRubric() (*domain.Rubric, error) {
	if c.RubricPath == "" {
		return domain.DefaultRubric(), nil
	}

	data, err := os.ReadFile(c.RubricPath)
	if err != nil {
		return nil, fmt.Errorf("reading rubric %s: %w", c.RubricPath, err)
	}

	rubric := domain.DefaultRubric()
	if err := yaml.Unmarshal(data, rubric); err != nil {
		return nil, fmt.Errorf("parsing rubric %s: %w", c.RubricPath, err)
	}
	if err := rubric.Validate(); err != nil {
		return nil, fmt.Errorf("rubric %s: %w", c.RubricPath, err)
	}
	return rubric, nil
}
