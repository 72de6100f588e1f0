package evaluators

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/ports"
)

var financialPromptTemplate = template.Must(template.New("financial").Parse(
	`You are a senior financial compliance analyst reviewing a transaction. Provide ACCURATE, SPECIFIC assessment.

TRANSACTION INFORMATION:
- Transaction ID: {{.TransactionID}}
- Amount: {{.Amount}}
- Currency: {{.Currency}}
- Description: {{.Description}}
- Data Completeness: {{.Completeness}}%

FRAUD DETECTION CRITERIA:
- Amount reasonableness (too large/small = suspicious)
- Currency legitimacy (standard fiat/crypto)
- Description clarity (vague = red flag)
- Transaction pattern (unusual = investigation needed)

YOUR TASK:
Analyze this transaction for legitimacy and risk. Be SPECIFIC:
- Reference the actual amount if provided
- Comment on the description quality
- Identify red flags if any
- Provide actionable recommendations

RED FLAGS:
- Missing amount or currency
- Vague or missing description
- Unusual transaction patterns
- Suspicious amounts (very round numbers, very large)

Return JSON:
{
  "verified": true/false,
  "findings": ["Finding 1 with specifics", "Finding 2", "Finding 3", "Finding 4"],
  "risks": ["Risk 1 if any", "Risk 2"],
  "recommendations": ["Rec 1", "Rec 2"],
  "confidence": 80
}

Be thorough but objective. Base verification on data completeness and reasonableness.`))

const financialSystemPrompt = "You are a senior financial compliance officer and fraud detection specialist with 20 years of experience in transaction monitoring and AML/CFT compliance. Provide accurate, risk-based analysis. Be specific about what looks legitimate vs suspicious."

// financialResponse uses a pointer for verified so a model that omits the
// field does not silently mark the transaction unverified.
type financialResponse struct {
	Verified        *bool    `json:"verified"`
	Findings        []string `json:"findings"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Confidence      *float64 `json:"confidence"`
}

// FinancialEvaluator screens transaction records. The two deterministic
// tiers differ: no configured client yields the completeness-based
// verdict, while a failed live call yields the sparser degraded one.
type FinancialEvaluator struct {
	base
}

func NewFinancialEvaluator(client ports.LLMClient, logger *slog.Logger, metrics ports.MetricsCollector) *FinancialEvaluator {
	return &FinancialEvaluator{base: newBase("financial_evaluator", client, logger, metrics)}
}

// Evaluate analyzes one transaction record.
func (e *FinancialEvaluator) Evaluate(ctx context.Context, in domain.FinancialInput) (domain.FinancialVerdict, bool) {
	sig := domain.NormalizeFinancial(in)

	if e.llm == nil {
		e.logger.WarnContext(ctx, "llm client not configured, using rule-based analysis", "transaction_id", in.TransactionID)
		e.recordOutcome(string(domain.DomainFinancial), pathFallback)
		return domain.FallbackFinancialVerdict(in, sig), true
	}

	ctx, span := e.tracer.Start(ctx, "financial.evaluate", trace.WithAttributes(
		attribute.String("transaction.id", in.TransactionID),
	))
	defer span.End()

	amount := notProvided
	if sig.HasAmount {
		amount = strings.TrimSpace(domain.FormatAmount(in.Amount) + " " + in.Currency)
	}

	var prompt bytes.Buffer
	if err := financialPromptTemplate.Execute(&prompt, map[string]string{
		"TransactionID": in.TransactionID,
		"Amount":        amount,
		"Currency":      orDefault(in.Currency, "NOT SPECIFIED"),
		"Description":   orDefault(in.Description, notProvided),
		"Completeness":  strconv.Itoa(sig.Completeness),
	}); err != nil {
		e.logger.ErrorContext(ctx, "financial prompt render failed", "transaction_id", in.TransactionID, "error", err)
		e.recordOutcome(string(domain.DomainFinancial), pathDegraded)
		return domain.DegradedFinancialVerdict(in, sig), true
	}

	raw, err := e.llm.Complete(ctx, prompt.String(), jsonRequestOptions(financialSystemPrompt, 0.2, 700))
	if err != nil {
		e.logger.WarnContext(ctx, "financial llm call failed, falling back", "transaction_id", in.TransactionID, "error", err)
		span.RecordError(err)
		e.recordOutcome(string(domain.DomainFinancial), pathDegraded)
		return domain.DegradedFinancialVerdict(in, sig), true
	}

	var resp financialResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		e.logger.WarnContext(ctx, "financial llm response unparseable, falling back", "transaction_id", in.TransactionID, "error", invalidResponse(err))
		e.recordOutcome(string(domain.DomainFinancial), pathDegraded)
		return domain.DegradedFinancialVerdict(in, sig), true
	}

	fallback := domain.FallbackFinancialVerdict(in, sig)
	verified := fallback.Verified
	if resp.Verified != nil {
		verified = *resp.Verified
	}

	e.recordOutcome(string(domain.DomainFinancial), pathPrimary)
	verdict := domain.FinancialVerdict{
		Verified:        verified,
		Findings:        mergeList(resp.Findings, fallback.Findings),
		Risks:           mergeList(resp.Risks, fallback.Risks),
		Recommendations: mergeList(resp.Recommendations, fallback.Recommendations),
		Confidence:      mergeConfidence(resp.Confidence, fallback.Confidence),
	}
	e.logger.InfoContext(ctx, "financial analysis complete",
		"transaction_id", in.TransactionID, "verified", verdict.Verified, "confidence", verdict.Confidence)
	return verdict, false
}
