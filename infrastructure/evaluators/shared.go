// Package evaluators contains the five domain analysis units: KYC, KYB,
// pitch, chat summary, and financial transaction. Each unit follows the
// same shape: normalize the submission into signals, try the LLM-backed
// primary path when a client is configured, and reconcile the remote
// answer with the deterministic fallback verdict field by field. No remote
// failure ever reaches the caller - the worst case is a fully rule-based
// verdict.
package evaluators

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/raftai/engine/internal/ports"
)

// Package-level validator instance for per-field response validation.
// Uses go-playground/validator v10 with Var checks so one bad field never
// discards the rest of a remote answer.
var validate = validator.New()

// base carries the dependencies shared by every evaluator. The LLM client
// is optional: nil forces the fallback path for every request.
type base struct {
	llm     ports.LLMClient
	logger  *slog.Logger
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

func newBase(name string, client ports.LLMClient, logger *slog.Logger, metrics ports.MetricsCollector) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		llm:     client,
		logger:  logger.With("evaluator", name),
		metrics: metrics,
		tracer:  otel.Tracer(name),
	}
}

// recordOutcome counts one completed analysis per path for operational
// visibility into how often the remote model is actually answering.
func (b base) recordOutcome(domainName, path string) {
	if b.metrics == nil {
		return
	}
	b.metrics.RecordCounter("analysis_total", 1, map[string]string{
		"domain": domainName,
		"path":   path,
	})
}

// Outcome paths recorded per analysis.
const (
	pathPrimary  = "primary"
	pathFallback = "fallback"
	pathDegraded = "degraded"
)

// jsonRequestOptions builds the per-request option map every evaluator
// sends with its completion call. All five analysis prompts expect a
// strict JSON object back.
func jsonRequestOptions(system string, temperature float64, maxTokens int) map[string]any {
	return map[string]any{
		"system":          system,
		"temperature":     temperature,
		"max_tokens":      maxTokens,
		"response_format": map[string]string{"type": "json_object"},
	}
}

// invalidResponse tags a decode failure with the shared sentinel before it
// is logged.
func invalidResponse(err error) error {
	return fmt.Errorf("%w: %v", ports.ErrInvalidResponse, err)
}

// extractJSON pulls a JSON object out of a remote response that may wrap
// it in markdown fences or surrounding prose. Returns "" when no balanced
// object is found.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+7:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	if idx := strings.Index(response, "```"); idx != -1 {
		rest := response[idx+3:]
		if nl := strings.Index(rest, "\n"); nl != -1 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	// Walk to the matching closing brace, skipping braces inside strings.
	braceCount := 0
	inString := false
	escapeNext := false
	for i := start; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return response[start : i+1]
			}
		}
	}

	return ""
}

// mergeList prefers the remote list when it is non-empty, otherwise the
// fallback list. Entries are trimmed; a list of blanks counts as empty.
func mergeList(remote, fallback []string) []string {
	cleaned := make([]string, 0, len(remote))
	for _, entry := range remote {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) > 0 {
		return cleaned
	}
	return fallback
}

// mergeString prefers a non-blank remote string over the fallback.
func mergeString(remote, fallback string) string {
	if trimmed := strings.TrimSpace(remote); trimmed != "" {
		return trimmed
	}
	return fallback
}

// orDefault substitutes a placeholder for blank prompt fields.
func orDefault(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

// mergeConfidence accepts a remote confidence only when present and inside
// [0,100]; anything else keeps the deterministic value.
func mergeConfidence(remote *float64, fallback int) int {
	if remote == nil {
		return fallback
	}
	if err := validate.Var(*remote, "min=0,max=100"); err != nil {
		return fallback
	}
	return int(*remote)
}
