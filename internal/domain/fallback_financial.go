package domain

import "fmt"

// Financial verification thresholds. The data-driven tier verifies on
// weighted completeness; the degraded tier verifies on the amount and
// description fields only. The two tiers disagree on purpose - they encode
// different amounts of available information, not a shared predicate.
const (
	financialVerifyThreshold     = 70 // completeness needed to verify (data-driven tier)
	financialSufficientThreshold = 80 // completeness treated as sufficient data quality
)

// FallbackFinancialVerdict is the data-driven tier, used when no remote
// client is configured. Verification is completeness-based.
func FallbackFinancialVerdict(in FinancialInput, sig FinancialSignals) FinancialVerdict {
	amountLine := "Amount: NOT PROVIDED"
	if sig.HasAmount {
		currency := in.Currency
		if currency == "" {
			currency = "USD"
		}
		amountLine = fmt.Sprintf("Amount: %s %s", FormatAmount(in.Amount), currency)
	}

	currencyLine := "Currency: NOT SPECIFIED"
	if sig.HasCurrency {
		currencyLine = fmt.Sprintf("Currency: %s", in.Currency)
	}

	descriptionLine := "Description: MISSING"
	if sig.HasDescription {
		descriptionLine = "Description: Provided"
	}

	quality := "Incomplete"
	if sig.Completeness >= financialSufficientThreshold {
		quality = "Sufficient"
	}

	findings := []string{
		amountLine,
		currencyLine,
		descriptionLine,
		fmt.Sprintf("Data Completeness: %d%% - %s", sig.Completeness, quality),
	}

	var risks []string
	if sig.Completeness < financialSufficientThreshold {
		risks = append(risks, "Incomplete transaction information - cannot fully verify")
	}

	processRec := "Request complete transaction details"
	if sig.Completeness >= financialSufficientThreshold {
		processRec = "Transaction can be processed"
	}
	recommendations := []string{
		processRec,
		"Real-time fraud screening requires the AI analysis path",
	}

	confidence := 40
	if sig.Completeness >= financialSufficientThreshold {
		confidence = 70
	}

	return FinancialVerdict{
		Verified:        sig.Completeness >= financialVerifyThreshold,
		Findings:        findings,
		Risks:           risks,
		Recommendations: recommendations,
		Confidence:      confidence,
	}
}

// DegradedFinancialVerdict is the minimal tier, used when a live remote
// call fails mid-request. Verification ignores the currency field.
func DegradedFinancialVerdict(in FinancialInput, sig FinancialSignals) FinancialVerdict {
	verified := sig.HasAmount && sig.HasDescription

	amountLine := "Amount: MISSING"
	if sig.HasAmount {
		currency := in.Currency
		if currency == "" {
			currency = "USD"
		}
		amountLine = fmt.Sprintf("Amount: %s %s", FormatAmount(in.Amount), currency)
	}

	descriptionLine := "Description: MISSING"
	if sig.HasDescription {
		descriptionLine = "Description: PROVIDED"
	}

	statusLine := "Cannot verify - missing data"
	if verified {
		statusLine = "Basic verification passed"
	}

	findings := []string{
		amountLine,
		descriptionLine,
		fmt.Sprintf("Transaction ID: %s", in.TransactionID),
		statusLine,
	}

	var risks []string
	if !verified {
		risks = append(risks, "Missing critical transaction information")
	}

	rec := "Request complete transaction details"
	if verified {
		rec = "Proceed with verification"
	}

	confidence := 40
	if verified {
		confidence = 75
	}

	return FinancialVerdict{
		Verified:        verified,
		Findings:        findings,
		Risks:           risks,
		Recommendations: []string{rec},
		Confidence:      confidence,
	}
}
