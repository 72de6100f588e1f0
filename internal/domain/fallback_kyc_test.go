package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kycVerdictFor(liveness, faceMatch float64) KYCVerdict {
	return FallbackKYCVerdict(NormalizeKYC(KYCInput{
		UserID:         "user",
		LivenessScore:  liveness,
		FaceMatchScore: faceMatch,
	}))
}

func TestFallbackKYCBothPass(t *testing.T) {
	verdict := kycVerdictFor(0.90, 0.95)

	assert.Contains(t, verdict.Findings[3], "ALL CHECKS PASSED")
	require.NotEmpty(t, verdict.Recommendations)
	assert.True(t, strings.HasPrefix(verdict.Recommendations[0], "APPROVE"))
	assert.Empty(t, verdict.RiskFactors)
	// 85 + 0.90*5 + 0.95*5 rounds to 94.
	assert.Equal(t, 94, verdict.Confidence)
}

func TestFallbackKYCBothFailLow(t *testing.T) {
	verdict := kycVerdictFor(0.40, 0.40)

	assert.Contains(t, verdict.Findings[3], "FAILED")
	assert.Contains(t, joined(verdict.Recommendations), "MANUAL REVIEW REQUIRED")
	// Liveness below 0.50 flags potential fraud.
	assert.Contains(t, verdict.RiskFactors[0], "HIGH RISK")
	assert.Contains(t, verdict.RiskFactors[0], "potential fraud")
	// Face match below 0.60 flags wrong person or altered document.
	assert.Contains(t, verdict.RiskFactors[1], "HIGH RISK")
	// 25 + 0.40*10 + 0.40*10 rounds to 33.
	assert.Equal(t, 33, verdict.Confidence)
}

func TestFallbackKYCPartialPass(t *testing.T) {
	verdict := kycVerdictFor(0.70, 0.85)

	assert.Contains(t, verdict.Findings[3], "PARTIAL PASS")
	assert.Contains(t, joined(verdict.Recommendations), "below 75% threshold")
	assert.Contains(t, joined(verdict.RiskFactors), "MEDIUM RISK")
	// 50 + 0.70*15 + 0.85*15 rounds to 73.
	assert.Equal(t, 73, verdict.Confidence)
}

func TestFallbackKYCConfidenceClamped(t *testing.T) {
	// Perfect scores would compute to 95, the ceiling.
	assert.Equal(t, 95, kycVerdictFor(1.0, 1.0).Confidence)
	// Zero scores compute to 25, above the floor; the floor guards
	// pathological inputs.
	assert.GreaterOrEqual(t, kycVerdictFor(0, 0).Confidence, 20)
	assert.LessOrEqual(t, kycVerdictFor(0, 0).Confidence, 95)
}

func TestFallbackKYCStatusBands(t *testing.T) {
	tests := []struct {
		liveness float64
		want     string
	}{
		{0.80, "EXCELLENT"},
		{0.65, "ACCEPTABLE"},
		{0.30, "BELOW THRESHOLD"},
	}
	for _, tt := range tests {
		verdict := kycVerdictFor(tt.liveness, 0.90)
		assert.Contains(t, verdict.Findings[0], tt.want, "liveness %v", tt.liveness)
	}
}

func TestFallbackKYCDeterministic(t *testing.T) {
	first := kycVerdictFor(0.73, 0.81)
	second := kycVerdictFor(0.73, 0.81)
	assert.Equal(t, first, second)
}

func joined(list []string) string { return strings.Join(list, "\n") }
