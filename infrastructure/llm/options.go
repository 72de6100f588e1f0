package llm

import "time"

// Parameter bounds shared by all providers.
const (
	// DefaultMaxTokens is used when no max_tokens option is supplied.
	DefaultMaxTokens = 1024
	// MinTemperature is the minimum allowed sampling temperature.
	MinTemperature = 0.0
	// MaxTemperature is the maximum allowed sampling temperature.
	// Set to 2.0 to accommodate providers like Gemini.
	MaxTemperature = 2.0
	// MinTimeout is the shortest accepted request timeout.
	MinTimeout = 1 * time.Second
	// MaxTimeout is the longest accepted request timeout.
	MaxTimeout = 10 * time.Minute
)

// RequestOptions is the standardized per-request configuration parsed from
// the options map that evaluators pass through ports.LLMClient.
type RequestOptions struct {
	// MaxTokens caps the generated output length.
	MaxTokens int
	// Model overrides the provider's configured model for this request.
	Model string
	// Temperature controls sampling randomness. Nil uses the provider
	// default.
	Temperature *float64
	// System carries the system prompt, when the provider supports one.
	System string
	// JSONResponse requests strict JSON output mode where the provider
	// supports it. Evaluators always set this; providers without a JSON
	// mode rely on prompt instructions alone.
	JSONResponse bool
}

// ParseRequestOptions extracts standardized parameters from an options
// map, substituting defaults for missing or invalid entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: extractInt(opts, "max_tokens", DefaultMaxTokens),
		Model:     extractString(opts, "model", defaultModel),
		System:    extractString(opts, "system", ""),
	}

	if temp, ok := extractFloat(opts, "temperature"); ok && temp >= MinTemperature && temp <= MaxTemperature {
		options.Temperature = &temp
	}

	if rf, ok := opts["response_format"].(map[string]string); ok && rf["type"] == "json_object" {
		options.JSONResponse = true
	}

	return options
}

func extractInt(opts map[string]any, key string, defaultVal int) int {
	switch v := opts[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return defaultVal
}

func extractString(opts map[string]any, key, defaultVal string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return defaultVal
}

func extractFloat(opts map[string]any, key string) (float64, bool) {
	switch v := opts[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// ClampFloat64 clamps val into [min,max].
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ValidateTimeout clamps a timeout into [MinTimeout, MaxTimeout].
// Zero or negative means the provider default applies.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}
