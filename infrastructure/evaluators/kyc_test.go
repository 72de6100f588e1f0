package evaluators

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/testutils"
)

func TestKYCEvaluator_NoClientUsesRuleBasedPath(t *testing.T) {
	evaluator := NewKYCEvaluator(nil, nil, nil)
	in := domain.KYCInput{UserID: "user-1", LivenessScore: 0.90, FaceMatchScore: 0.95}

	verdict, degraded := evaluator.Evaluate(context.Background(), in)

	assert.True(t, degraded)
	expected := domain.FallbackKYCVerdict(domain.NormalizeKYC(in))
	assert.Equal(t, expected, verdict)
	assert.Contains(t, verdict.Recommendations[0], "APPROVE")
}

func TestKYCEvaluator_PrimaryPathMergesRemoteAnswer(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	evaluator := NewKYCEvaluator(client, nil, nil)
	in := domain.KYCInput{UserID: "user-1", LivenessScore: 0.90, FaceMatchScore: 0.95}

	verdict, degraded := evaluator.Evaluate(context.Background(), in)

	assert.False(t, degraded)
	assert.Equal(t, 88, verdict.Confidence)
	require.NotEmpty(t, verdict.Findings)
	assert.Contains(t, verdict.Findings[0], "genuine presence")
	assert.Equal(t, 1, client.CallCount())
}

func TestKYCEvaluator_RemoteFailureFallsBack(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	client.SetError(errors.New("service unavailable"))
	evaluator := NewKYCEvaluator(client, nil, nil)
	in := domain.KYCInput{UserID: "user-2", LivenessScore: 0.40, FaceMatchScore: 0.40}

	verdict, degraded := evaluator.Evaluate(context.Background(), in)

	assert.True(t, degraded)
	expected := domain.FallbackKYCVerdict(domain.NormalizeKYC(in))
	assert.Equal(t, expected, verdict)
	assert.Contains(t, verdict.RiskFactors[0], "HIGH RISK")
}

func TestKYCEvaluator_MalformedJSONFallsBack(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	client.AddResponse(testutils.MockResponse{
		Pattern:  "KYC compliance analyst",
		Response: "I cannot produce JSON today.",
	})
	evaluator := NewKYCEvaluator(client, nil, nil)
	in := domain.KYCInput{UserID: "user-3", LivenessScore: 0.80, FaceMatchScore: 0.85}

	verdict, degraded := evaluator.Evaluate(context.Background(), in)

	assert.True(t, degraded)
	assert.Equal(t, domain.FallbackKYCVerdict(domain.NormalizeKYC(in)), verdict)
}

func TestKYCEvaluator_PartialResponseSubstitutesPerField(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	client.AddResponse(testutils.MockResponse{
		Pattern:  "KYC compliance analyst",
		Response: `{"findings": [], "recommendations": ["Escalate to senior analyst"], "confidence": 150}`,
	})
	evaluator := NewKYCEvaluator(client, nil, nil)
	in := domain.KYCInput{UserID: "user-4", LivenessScore: 0.80, FaceMatchScore: 0.85}

	verdict, degraded := evaluator.Evaluate(context.Background(), in)
	fallback := domain.FallbackKYCVerdict(domain.NormalizeKYC(in))

	assert.False(t, degraded)
	// Empty findings and an out-of-range confidence keep the
	// deterministic values; the valid recommendations list wins.
	assert.Equal(t, fallback.Findings, verdict.Findings)
	assert.Equal(t, fallback.Confidence, verdict.Confidence)
	assert.Equal(t, []string{"Escalate to senior analyst"}, verdict.Recommendations)
}

func TestKYCEvaluator_RecordsOutcomeMetrics(t *testing.T) {
	metrics := testutils.NewMockMetricsCollector()
	evaluator := NewKYCEvaluator(nil, nil, metrics)

	evaluator.Evaluate(context.Background(), domain.KYCInput{UserID: "user-5"})

	total := metrics.CounterTotal("analysis_total", map[string]string{
		"domain": "kyc", "path": "fallback",
	})
	assert.Equal(t, 1.0, total)
}

func TestKYCEvaluator_PromptCarriesScoresAndOptions(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	evaluator := NewKYCEvaluator(client, nil, nil)

	evaluator.Evaluate(context.Background(), domain.KYCInput{
		UserID:         "user-6",
		LivenessScore:  0.875,
		FaceMatchScore: 0.91,
	})

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "87.5%")
	assert.Contains(t, client.Prompts[0], "91.0%")
	assert.Contains(t, client.Prompts[0], "Government ID")

	require.Len(t, client.Options, 1)
	assert.Equal(t, 0.2, client.Options[0]["temperature"])
	assert.Equal(t, 600, client.Options[0]["max_tokens"])
}
