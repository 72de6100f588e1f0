package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func financialVerdictFor(in FinancialInput) FinancialVerdict {
	return FallbackFinancialVerdict(in, NormalizeFinancial(in))
}

func degradedFinancialVerdictFor(in FinancialInput) FinancialVerdict {
	return DegradedFinancialVerdict(in, NormalizeFinancial(in))
}

func TestFallbackFinancialComplete(t *testing.T) {
	verdict := financialVerdictFor(FinancialInput{
		TransactionID: "txn-1",
		Amount:        1_250_000,
		Currency:      "USD",
		Description:   "Series A wire transfer",
	})

	assert.True(t, verdict.Verified)
	assert.Equal(t, "Amount: 1,250,000 USD", verdict.Findings[0])
	assert.Equal(t, "Currency: USD", verdict.Findings[1])
	assert.Equal(t, "Description: Provided", verdict.Findings[2])
	assert.Equal(t, "Data Completeness: 100% - Sufficient", verdict.Findings[3])
	assert.Empty(t, verdict.Risks)
	assert.Equal(t, "Transaction can be processed", verdict.Recommendations[0])
	assert.Equal(t, 70, verdict.Confidence)
}

func TestFallbackFinancialEmptySubmission(t *testing.T) {
	verdict := financialVerdictFor(FinancialInput{TransactionID: "txn-2"})

	assert.False(t, verdict.Verified)
	assert.Equal(t, "Amount: NOT PROVIDED", verdict.Findings[0])
	assert.Equal(t, "Currency: NOT SPECIFIED", verdict.Findings[1])
	assert.Equal(t, "Description: MISSING", verdict.Findings[2])
	assert.Equal(t, "Data Completeness: 0% - Incomplete", verdict.Findings[3])
	require.NotEmpty(t, verdict.Risks)
	assert.Contains(t, verdict.Risks[0], "cannot fully verify")
	assert.Equal(t, 40, verdict.Confidence)
}

func TestFallbackFinancialFractionalAmountDefaultsCurrency(t *testing.T) {
	verdict := financialVerdictFor(FinancialInput{
		TransactionID: "txn-3",
		Amount:        99.5,
		Description:   "refund",
	})

	// A missing currency falls back to USD in the amount line but still
	// reads as unspecified in its own finding.
	assert.Equal(t, "Amount: 99.50 USD", verdict.Findings[0])
	assert.Equal(t, "Currency: NOT SPECIFIED", verdict.Findings[1])
}

func TestFinancialTiersDisagreeAtThreshold(t *testing.T) {
	// Amount plus description reaches completeness 70: the data-driven
	// tier verifies at low confidence, the degraded tier verifies at 75.
	in := FinancialInput{TransactionID: "txn-4", Amount: 500, Description: "invoice 88"}

	fallback := financialVerdictFor(in)
	assert.True(t, fallback.Verified)
	assert.Equal(t, 40, fallback.Confidence)

	degraded := degradedFinancialVerdictFor(in)
	assert.True(t, degraded.Verified)
	assert.Equal(t, 75, degraded.Confidence)
	assert.Equal(t, "Basic verification passed", degraded.Findings[3])
	assert.Equal(t, []string{"Proceed with verification"}, degraded.Recommendations)

	// Amount plus currency also reaches 70, but the degraded tier needs a
	// description and refuses to verify.
	in = FinancialInput{TransactionID: "txn-5", Amount: 500, Currency: "EUR"}
	assert.True(t, financialVerdictFor(in).Verified)

	degraded = degradedFinancialVerdictFor(in)
	assert.False(t, degraded.Verified)
	assert.Equal(t, 40, degraded.Confidence)
	assert.Equal(t, "Description: MISSING", degraded.Findings[1])
	assert.Contains(t, degraded.Risks[0], "Missing critical transaction information")
}

func TestDegradedFinancialIncludesTransactionID(t *testing.T) {
	verdict := degradedFinancialVerdictFor(FinancialInput{TransactionID: "txn-6"})
	assert.Equal(t, "Amount: MISSING", verdict.Findings[0])
	assert.Equal(t, "Transaction ID: txn-6", verdict.Findings[2])
	assert.Equal(t, "Cannot verify - missing data", verdict.Findings[3])
}

func TestFinancialZeroAmountNotCounted(t *testing.T) {
	verdict := financialVerdictFor(FinancialInput{
		TransactionID: "txn-7",
		Amount:        0,
		Currency:      "USD",
		Description:   "pending",
	})
	assert.False(t, verdict.Verified)
	assert.Equal(t, "Amount: NOT PROVIDED", verdict.Findings[0])
}
