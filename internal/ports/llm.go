// Package ports defines the interfaces between the evaluation core and its
// external collaborators, including LLM providers and metrics backends.
// Keeping these contracts in a dedicated package lets domain logic and
// infrastructure evolve independently.
package ports

import "context"

// LLMClient defines the interface for interacting with Large Language
// Model providers.
// Implementations should handle provider-specific details like authentication,
// request formatting, and response parsing.
//
// Evaluators treat this dependency as optional: a nil LLMClient routes every
// analysis through the deterministic fallback path.
type LLMClient interface {
	// Complete sends a completion request to the LLM provider.
	// It returns the generated text and any error encountered.
	//
	// The options map allows flexibility for different providers without
	// changing the interface. Common options include:
	//   - "temperature": float64 (0.0-1.0)
	//   - "max_tokens": int
	//   - "system": string (system prompt)
	//   - "response_format": map[string]string{"type": "json_object"}
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens calculates the approximate token count for a given text.
	// This is useful for cost estimation and staying within model limits.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier being used by this client.
	// This is useful for logging and debugging purposes.
	GetModel() string
}
