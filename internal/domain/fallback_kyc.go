package domain

import (
	"fmt"
	"math"
)

// KYC confidence bands. The fallback confidence is a linear blend of the
// two scores inside the band selected by the pass thresholds, clamped to
// [20,95] so a rule-based verdict never claims certainty.
const (
	kycConfidenceFloor = 20
	kycConfidenceCeil  = 95
)

// FallbackKYCVerdict computes an identity-verification verdict from the
// normalized signals alone. It is a pure function: no network access, no
// randomness, byte-identical output for identical input.
func FallbackKYCVerdict(sig KYCSignals) KYCVerdict {
	livenessStatus := "BELOW THRESHOLD"
	switch {
	case sig.LivenessScore >= LivenessPassThreshold:
		livenessStatus = "EXCELLENT"
	case sig.LivenessScore >= LivenessPartialThreshold:
		livenessStatus = "ACCEPTABLE"
	}

	faceMatchStatus := "POOR MATCH"
	switch {
	case sig.FaceMatchScore >= FaceMatchPassThreshold:
		faceMatchStatus = "STRONG MATCH"
	case sig.FaceMatchScore >= FaceMatchPartialThreshold:
		faceMatchStatus = "WEAK MATCH"
	}

	statusLine := "Verification Status: FAILED - Re-verification required"
	switch {
	case sig.BothPass:
		statusLine = "Verification Status: ALL CHECKS PASSED"
	case sig.LivenessPass || sig.FaceMatchPass:
		statusLine = "Verification Status: PARTIAL PASS - Manual review recommended"
	}

	findings := []string{
		fmt.Sprintf("Liveness Detection: %s%% - %s (Threshold: 75%%)", sig.LivenessPercent, livenessStatus),
		fmt.Sprintf("Face Match: %s%% - %s (Threshold: 82%%)", sig.FaceMatchPercent, faceMatchStatus),
		fmt.Sprintf("Document Type: %s - Submitted", sig.DocumentType),
		statusLine,
	}

	var recommendations []string
	if sig.BothPass {
		recommendations = append(recommendations,
			"APPROVE: All identity verification checks passed successfully",
			"User can proceed with full platform access")
	} else {
		if !sig.LivenessPass {
			recommendations = append(recommendations,
				fmt.Sprintf("Liveness score %s%% is below 75%% threshold - request new liveness check", sig.LivenessPercent))
		}
		if !sig.FaceMatchPass {
			recommendations = append(recommendations,
				fmt.Sprintf("Face match %s%% is below 82%% threshold - verify photo quality and lighting", sig.FaceMatchPercent))
		}
		recommendations = append(recommendations,
			"MANUAL REVIEW REQUIRED: Compliance team should review before approval")
		if sig.LivenessScore > LivenessPartialThreshold || sig.FaceMatchScore > FaceMatchPartialThreshold {
			recommendations = append(recommendations,
				"Consider requesting higher quality document photos")
		}
	}

	var riskFactors []string
	if !sig.LivenessPass {
		if sig.LivenessScore < LivenessFraudThreshold {
			riskFactors = append(riskFactors,
				"HIGH RISK: Very low liveness score suggests potential fraud (photo/video spoof)")
		} else {
			riskFactors = append(riskFactors,
				"MEDIUM RISK: Liveness score below threshold - may indicate poor capture conditions")
		}
	}
	if !sig.FaceMatchPass {
		if sig.FaceMatchScore < FaceMatchPoorThreshold {
			riskFactors = append(riskFactors,
				"HIGH RISK: Poor face match suggests wrong person or altered document")
		} else {
			riskFactors = append(riskFactors,
				"MEDIUM RISK: Face match below threshold - verify identity document authenticity")
		}
	}

	var confidence int
	switch {
	case sig.BothPass:
		confidence = int(math.Round(85 + sig.LivenessScore*5 + sig.FaceMatchScore*5))
	case sig.LivenessScore >= LivenessPartialThreshold || sig.FaceMatchScore >= FaceMatchPartialThreshold:
		confidence = int(math.Round(50 + sig.LivenessScore*15 + sig.FaceMatchScore*15))
	default:
		confidence = int(math.Round(25 + sig.LivenessScore*10 + sig.FaceMatchScore*10))
	}
	confidence = ClampConfidence(confidence, kycConfidenceFloor, kycConfidenceCeil)

	return KYCVerdict{
		Findings:        findings,
		Recommendations: recommendations,
		RiskFactors:     riskFactors,
		Confidence:      confidence,
	}
}
