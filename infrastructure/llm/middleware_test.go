package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/raftai/engine/internal/testutils"
)

func TestTimeoutMiddlewareSetsDeadline(t *testing.T) {
	core := &fakeCore{model: "m", response: "ok"}
	wrapped := TimeoutMiddleware(5 * time.Second)(core)

	before := time.Now()
	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)

	deadline, ok := core.lastCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, before.Add(5*time.Second), deadline, time.Second)
	assert.Equal(t, "m", wrapped.GetModel())
}

func TestTimeoutMiddlewareKeepsEarlierDeadline(t *testing.T) {
	core := &fakeCore{model: "m", response: "ok"}
	wrapped := TimeoutMiddleware(time.Hour)(core)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, _, _, err := wrapped.DoRequest(ctx, "prompt", nil)
	require.NoError(t, err)

	deadline, ok := core.lastCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestRateLimitMiddlewarePassesWhenAllowed(t *testing.T) {
	core := &fakeCore{model: "m", response: "ok"}
	wrapped := RateLimitMiddleware(rate.Inf, 1)(core)

	got, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestRateLimitMiddlewareRejectsWhenExhausted(t *testing.T) {
	core := &fakeCore{model: "m", response: "ok"}
	// A zero burst can never admit a request.
	wrapped := RateLimitMiddleware(rate.Limit(1), 0)(core)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ErrorTypeRateLimit, provErr.Type)
	assert.Equal(t, "rate_limiter", provErr.Provider)
	assert.Empty(t, core.prompts)
}

func TestMetricsMiddlewareRecordsSuccess(t *testing.T) {
	core := &fakeCore{model: "m", response: "ok"}
	collector := testutils.NewMockMetricsCollector()
	wrapped := MetricsMiddleware(collector)(core)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, collector.CounterTotal("llm_requests_total", map[string]string{
		"model":  "m",
		"status": "success",
	}))
	assert.Equal(t, 10.0, collector.CounterTotal("llm_tokens_total", map[string]string{
		"token_type": "input",
	}))
	assert.Equal(t, 20.0, collector.CounterTotal("llm_tokens_total", map[string]string{
		"token_type": "output",
	}))
	require.Len(t, collector.Histograms, 1)
	assert.Equal(t, "llm_latency_seconds", collector.Histograms[0].Name)
}

func TestMetricsMiddlewareRecordsError(t *testing.T) {
	core := &fakeCore{model: "m", err: errors.New("boom")}
	collector := testutils.NewMockMetricsCollector()
	wrapped := MetricsMiddleware(collector)(core)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, collector.CounterTotal("llm_requests_total", map[string]string{"status": "error"}))
	// Token counters are not emitted for failed requests.
	assert.Equal(t, 0.0, collector.CounterTotal("llm_tokens_total", nil))
}

func TestMetricsMiddlewareRecordsTimeout(t *testing.T) {
	core := &fakeCore{model: "m", err: context.DeadlineExceeded}
	collector := testutils.NewMockMetricsCollector()
	wrapped := MetricsMiddleware(collector)(core)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, _, _, err := wrapped.DoRequest(ctx, "prompt", nil)
	require.Error(t, err)
	assert.Equal(t, 1.0, collector.CounterTotal("llm_requests_total", map[string]string{"status": "timeout"}))
}

func TestTracingMiddlewarePassesThrough(t *testing.T) {
	core := &fakeCore{model: "m", response: "ok"}
	wrapped := TracingMiddleware("raftai-test")(core)

	got, tokensIn, tokensOut, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 10, tokensIn)
	assert.Equal(t, 20, tokensOut)
	assert.Equal(t, "m", wrapped.GetModel())
}
