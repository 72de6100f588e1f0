// Package testutils provides shared test doubles for the analysis engine.
package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/raftai/engine/internal/ports"
)

// MockLLMClient implements ports.LLMClient with deterministic responses
// for consistent testing. Responses are selected by substring matching
// against the prompt, which lets one client serve all five analysis
// domains in a test.
type MockLLMClient struct {
	mu sync.Mutex

	model     string
	responses []MockResponse
	err       error

	// Prompts records every prompt received, in order.
	Prompts []string
	// Options records the option map of every call, in order.
	Options []map[string]any
}

// MockResponse defines a pre-configured response pattern.
type MockResponse struct {
	// Pattern is matched as a substring of the prompt. Empty matches
	// everything and acts as the default.
	Pattern string
	// Response is the raw text returned for matching prompts.
	Response string
}

// NewMockLLMClient creates a mock with canned JSON answers for each of
// the five analysis prompts. Tests override patterns with AddResponse.
func NewMockLLMClient(model string) *MockLLMClient {
	client := &MockLLMClient{model: model}

	client.AddResponse(MockResponse{
		Pattern:  "KYC compliance analyst",
		Response: `{"findings": ["Liveness score indicates genuine presence", "Face match within acceptable range"], "recommendations": ["Approve for platform access"], "riskFactors": [], "confidence": 88}`,
	})
	client.AddResponse(MockResponse{
		Pattern:  "KYB (Know Your Business) review",
		Response: `{"findings": ["Registration number on file", "Jurisdiction identified"], "recommendations": ["Proceed with compliance checks"], "riskFactors": [], "confidence": 82}`,
	})
	client.AddResponse(MockResponse{
		Pattern:  "crypto VC analyst",
		Response: `{"summary": "Credible project with a working product.", "strengths": ["Experienced team"], "weaknesses": ["Crowded market"], "risks": ["Regulatory pressure"], "recommendations": ["Complete an audit"], "rating": "Normal", "confidence": 74}`,
	})
	client.AddResponse(MockResponse{
		Pattern:  "deal room analyst",
		Response: `{"summary": "Parties agreed on term sheet revisions.", "keyPoints": ["Valuation discussed", "Follow-up call scheduled"], "actions": ["Send revised term sheet"], "sentiment": "positive"}`,
	})
	client.AddResponse(MockResponse{
		Pattern:  "financial compliance analyst",
		Response: `{"verified": true, "findings": ["Amount within normal range", "Clear invoice description"], "risks": [], "recommendations": ["Approve transaction"], "confidence": 85}`,
	})

	return client
}

// AddResponse registers a response pattern. Later registrations take
// priority over earlier ones so tests can shadow the defaults.
func (m *MockLLMClient) AddResponse(response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
}

// SetError makes every subsequent Complete call fail with err. Passing
// nil restores normal operation.
func (m *MockLLMClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Complete implements ports.LLMClient with deterministic pattern-matched
// responses.
func (m *MockLLMClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	m.Options = append(m.Options, options)

	if m.err != nil {
		return "", m.err
	}

	// Most recent registration wins.
	var fallback string
	for i := len(m.responses) - 1; i >= 0; i-- {
		r := m.responses[i]
		if r.Pattern == "" {
			if fallback == "" {
				fallback = r.Response
			}
			continue
		}
		if strings.Contains(prompt, r.Pattern) {
			return r.Response, nil
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("no mock response matches prompt")
}

// EstimateTokens approximates four characters per token, matching the
// estimator used by the real providers.
func (m *MockLLMClient) EstimateTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	tokens := len(text) / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens, nil
}

// GetModel returns the mock model identifier.
func (m *MockLLMClient) GetModel() string { return m.model }

// CallCount reports how many Complete calls were received.
func (m *MockLLMClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

var _ ports.LLMClient = (*MockLLMClient)(nil)
