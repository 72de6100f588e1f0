package domain

import "fmt"

// KYB confidence ladder. Confidence depends on completeness and the
// restricted-jurisdiction flag, not on any remote signal.
const (
	kybConfidenceComplete   = 85
	kybConfidenceRestricted = 50
	kybConfidenceMostly     = 60 // completeness >= 67
	kybConfidencePartial    = 35 // completeness >= 34
	kybConfidenceMinimal    = 15
)

// FallbackKYBVerdict computes a business-verification verdict from the raw
// submission and its normalized signals. Pure and deterministic.
func FallbackKYBVerdict(in KYBInput, sig KYBSignals) KYBVerdict {
	businessNameLine := "Business Name: NOT PROVIDED - Required for verification"
	if sig.HasBusinessName {
		businessNameLine = fmt.Sprintf("Business Name: %s", in.BusinessName)
	}

	registrationLine := "Registration Number: NOT PROVIDED - Critical requirement"
	if sig.HasRegistration {
		registrationLine = fmt.Sprintf("Registration Number: %s (Submitted)", in.RegistrationNumber)
	}

	jurisdictionLine := "Jurisdiction: NOT PROVIDED - Needed for compliance"
	if sig.HasJurisdiction {
		jurisdictionLine = fmt.Sprintf("Jurisdiction: %s", in.Jurisdiction)
		if sig.Restricted {
			jurisdictionLine += " (RESTRICTED)"
		}
	}

	completenessState := "Missing all data"
	switch {
	case sig.AllInfoProvided:
		completenessState = "Complete"
	case sig.PartialInfo:
		completenessState = "Incomplete"
	}

	findings := []string{
		businessNameLine,
		registrationLine,
		jurisdictionLine,
		fmt.Sprintf("Data Completeness: %d%% - %s", sig.Completeness, completenessState),
	}

	var recommendations []string
	if sig.AllInfoProvided && !sig.Restricted {
		recommendations = append(recommendations,
			"APPROVE: All required business information provided",
			"Proceed with regulatory and compliance verification",
			"Verify business registration with local authorities")
	} else {
		if !sig.HasBusinessName {
			recommendations = append(recommendations,
				"URGENT: Provide legal business name as registered")
		}
		if !sig.HasRegistration {
			recommendations = append(recommendations,
				"URGENT: Submit official business registration number")
		}
		if !sig.HasJurisdiction {
			recommendations = append(recommendations,
				"URGENT: Specify business registration jurisdiction")
		}
		if sig.Restricted {
			recommendations = append(recommendations,
				"RESTRICTED JURISDICTION: Enhanced due diligence required",
				"Verify compliance with international sanctions")
		}
		recommendations = append(recommendations,
			"MANUAL REVIEW REQUIRED: Cannot approve without complete information")
	}

	var riskFactors []string
	if !sig.AllInfoProvided {
		switch {
		case sig.Completeness < 34:
			riskFactors = append(riskFactors,
				"CRITICAL: Minimal business information provided - cannot perform verification")
		case sig.Completeness < 67:
			riskFactors = append(riskFactors,
				"HIGH RISK: Incomplete business information - verification not possible")
		default:
			riskFactors = append(riskFactors,
				"MEDIUM RISK: Missing some business information")
		}
	}
	if sig.Restricted {
		riskFactors = append(riskFactors,
			"HIGH RISK: Business registered in RESTRICTED or sanctioned jurisdiction",
			"Requires enhanced due diligence and compliance verification")
	}
	if !sig.HasRegistration {
		riskFactors = append(riskFactors,
			"Cannot verify business legitimacy without registration number")
	}

	var confidence int
	switch {
	case sig.AllInfoProvided && !sig.Restricted:
		confidence = kybConfidenceComplete
	case sig.AllInfoProvided && sig.Restricted:
		confidence = kybConfidenceRestricted
	case sig.Completeness >= 67:
		confidence = kybConfidenceMostly
	case sig.Completeness >= 34:
		confidence = kybConfidencePartial
	default:
		confidence = kybConfidenceMinimal
	}

	return KYBVerdict{
		Findings:        findings,
		Recommendations: recommendations,
		RiskFactors:     riskFactors,
		Confidence:      confidence,
	}
}
