package evaluators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/testutils"
)

func strongPitch() domain.PitchInput {
	return domain.PitchInput{
		ProjectID: "proj-1",
		Title:     "ChainSense",
		Summary:   strings.Repeat("A production AI analytics network with live customers and audited contracts. ", 4),
		Sector:    "AI",
		Stage:     "Scaling",
		Chain:     "Ethereum",
		Tokenomics: &domain.Tokenomics{
			TotalSupply: 500_000_000,
			TGEPercent:  10,
			Vesting:     "24 months linear",
		},
	}
}

func TestPitchEvaluator_NoClientUsesRubricVerdict(t *testing.T) {
	evaluator := NewPitchEvaluator(nil, nil, nil, nil)
	in := strongPitch()

	verdict, degraded := evaluator.Evaluate(context.Background(), in)

	assert.True(t, degraded)
	expected := domain.FallbackPitchVerdict(in, domain.NormalizePitch(in), domain.DefaultRubric())
	assert.Equal(t, expected, verdict)
	assert.Equal(t, domain.RatingHigh, verdict.Rating)
	assert.GreaterOrEqual(t, verdict.OverallScore, 80)
}

func TestPitchEvaluator_PrimaryPathKeepsDeterministicScore(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	evaluator := NewPitchEvaluator(client, nil, nil, nil)
	in := strongPitch()

	verdict, degraded := evaluator.Evaluate(context.Background(), in)
	fallback := domain.FallbackPitchVerdict(in, domain.NormalizePitch(in), domain.DefaultRubric())

	assert.False(t, degraded)
	// The model may restate everything else, but the composite score is
	// always computed locally.
	assert.Equal(t, fallback.OverallScore, verdict.OverallScore)
	assert.Equal(t, domain.RatingNormal, verdict.Rating)
	assert.Equal(t, 74, verdict.Confidence)
	assert.Equal(t, "Credible project with a working product.", verdict.Summary)
}

func TestPitchEvaluator_InvalidRatingKeepsRubricRating(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	client.AddResponse(testutils.MockResponse{
		Pattern:  "crypto VC analyst",
		Response: `{"summary": "Looks fine.", "rating": "Stellar", "confidence": 70}`,
	})
	evaluator := NewPitchEvaluator(client, nil, nil, nil)
	in := strongPitch()

	verdict, degraded := evaluator.Evaluate(context.Background(), in)

	assert.False(t, degraded)
	assert.Equal(t, domain.RatingHigh, verdict.Rating)
	assert.Equal(t, "Looks fine.", verdict.Summary)
}

func TestPitchEvaluator_RemoteFailureFallsBack(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	client.SetError(errors.New("timeout"))
	evaluator := NewPitchEvaluator(client, nil, nil, nil)
	in := domain.PitchInput{ProjectID: "proj-2", Title: "Bare Idea", Sector: "Other", Stage: "Idea", Chain: "Other"}

	verdict, degraded := evaluator.Evaluate(context.Background(), in)

	assert.True(t, degraded)
	assert.Equal(t, domain.RatingLow, verdict.Rating)
	critical := 0
	for _, w := range verdict.Weaknesses {
		if strings.Contains(w, "CRITICAL") {
			critical++
		}
	}
	assert.GreaterOrEqual(t, critical, 2)
}

func TestPitchEvaluator_PromptCarriesTokenomics(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	evaluator := NewPitchEvaluator(client, nil, nil, nil)

	evaluator.Evaluate(context.Background(), strongPitch())

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "500,000,000")
	assert.Contains(t, client.Prompts[0], "10%")
	assert.Contains(t, client.Prompts[0], "24 months linear")
}

func TestPitchEvaluator_PromptMarksMissingTokenomics(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	evaluator := NewPitchEvaluator(client, nil, nil, nil)

	evaluator.Evaluate(context.Background(), domain.PitchInput{
		ProjectID: "proj-3", Title: "NoToken", Sector: "DeFi", Stage: "Beta", Chain: "Solana",
	})

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "Total Supply: NOT PROVIDED")
	assert.Contains(t, client.Prompts[0], "Vesting Schedule: N/A")
}
