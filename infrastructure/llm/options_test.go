package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestOptionsDefaults(t *testing.T) {
	options := ParseRequestOptions(nil, "default-model")

	assert.Equal(t, DefaultMaxTokens, options.MaxTokens)
	assert.Equal(t, "default-model", options.Model)
	assert.Nil(t, options.Temperature)
	assert.Empty(t, options.System)
	assert.False(t, options.JSONResponse)
}

func TestParseRequestOptionsMaxTokens(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
		want int
	}{
		{"int", map[string]any{"max_tokens": 600}, 600},
		{"float64 from JSON decoding", map[string]any{"max_tokens": float64(700)}, 700},
		{"zero falls back", map[string]any{"max_tokens": 0}, DefaultMaxTokens},
		{"negative falls back", map[string]any{"max_tokens": -5}, DefaultMaxTokens},
		{"wrong type falls back", map[string]any{"max_tokens": "600"}, DefaultMaxTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRequestOptions(tt.opts, "m").MaxTokens)
		})
	}
}

func TestParseRequestOptionsTemperature(t *testing.T) {
	options := ParseRequestOptions(map[string]any{"temperature": 0.2}, "m")
	require.NotNil(t, options.Temperature)
	assert.InDelta(t, 0.2, *options.Temperature, 1e-9)

	options = ParseRequestOptions(map[string]any{"temperature": 1}, "m")
	require.NotNil(t, options.Temperature)
	assert.InDelta(t, 1.0, *options.Temperature, 1e-9)

	// Out of range or untyped values leave the provider default in place.
	assert.Nil(t, ParseRequestOptions(map[string]any{"temperature": 2.5}, "m").Temperature)
	assert.Nil(t, ParseRequestOptions(map[string]any{"temperature": -0.1}, "m").Temperature)
	assert.Nil(t, ParseRequestOptions(map[string]any{"temperature": "0.2"}, "m").Temperature)

	// The bounds themselves are accepted.
	assert.NotNil(t, ParseRequestOptions(map[string]any{"temperature": 0.0}, "m").Temperature)
	assert.NotNil(t, ParseRequestOptions(map[string]any{"temperature": 2.0}, "m").Temperature)
}

func TestParseRequestOptionsJSONResponse(t *testing.T) {
	options := ParseRequestOptions(map[string]any{
		"response_format": map[string]string{"type": "json_object"},
	}, "m")
	assert.True(t, options.JSONResponse)

	options = ParseRequestOptions(map[string]any{
		"response_format": map[string]string{"type": "text"},
	}, "m")
	assert.False(t, options.JSONResponse)
}

func TestParseRequestOptionsSystemAndModel(t *testing.T) {
	options := ParseRequestOptions(map[string]any{
		"system": "You are a careful analyst.",
		"model":  "override-model",
	}, "default-model")
	assert.Equal(t, "You are a careful analyst.", options.System)
	assert.Equal(t, "override-model", options.Model)

	options = ParseRequestOptions(map[string]any{"model": ""}, "default-model")
	assert.Equal(t, "default-model", options.Model)
}

func TestClampFloat64(t *testing.T) {
	assert.Equal(t, 0.0, ClampFloat64(-1, 0, 2))
	assert.Equal(t, 2.0, ClampFloat64(3, 0, 2))
	assert.Equal(t, 1.5, ClampFloat64(1.5, 0, 2))
}

func TestValidateTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), ValidateTimeout(0))
	assert.Equal(t, time.Duration(0), ValidateTimeout(-time.Second))
	assert.Equal(t, MinTimeout, ValidateTimeout(100*time.Millisecond))
	assert.Equal(t, MaxTimeout, ValidateTimeout(time.Hour))
	assert.Equal(t, 8*time.Second, ValidateTimeout(8*time.Second))
}
