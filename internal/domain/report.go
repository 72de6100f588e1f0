package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisDomain identifies which evaluator produced a report.
type AnalysisDomain string

// The five analysis domains.
const (
	DomainKYC       AnalysisDomain = "kyc"
	DomainKYB       AnalysisDomain = "kyb"
	DomainPitch     AnalysisDomain = "pitch"
	DomainChat      AnalysisDomain = "chat"
	DomainFinancial AnalysisDomain = "financial"
)

// Report is the envelope returned to external callers. It wraps a domain
// verdict with an identifier, a timestamp, and a flag recording whether the
// verdict came from the deterministic path instead of the remote model.
type Report struct {
	// ID uniquely identifies this report.
	ID string `json:"id"`

	// Domain names the evaluator that produced the verdict.
	Domain AnalysisDomain `json:"domain"`

	// GeneratedAt records when the analysis completed.
	GeneratedAt time.Time `json:"generatedAt"`

	// Degraded is true when the verdict was produced entirely by the
	// rule-based path, either because no remote client is configured or
	// because the remote call failed.
	Degraded bool `json:"degraded"`

	// Verdict is the domain-specific result: KYCVerdict, KYBVerdict,
	// PitchVerdict, ChatSummary, or FinancialVerdict.
	Verdict any `json:"verdict"`
}

// NewReport wraps a verdict in a report envelope.
func NewReport(domain AnalysisDomain, degraded bool, verdict any) Report {
	return Report{
		ID:          uuid.NewString(),
		Domain:      domain,
		GeneratedAt: time.Now().UTC(),
		Degraded:    degraded,
		Verdict:     verdict,
	}
}
