package evaluators

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"text/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/ports"
)

var kybPromptTemplate = template.Must(template.New("kyb").Parse(
	`You are a senior business compliance officer conducting a thorough KYB (Know Your Business) review. Provide accurate, specific analysis.

BUSINESS INFORMATION:
- Organization ID: {{.OrgID}}
- Business Name: {{.BusinessName}}
- Registration Number: {{.RegistrationNumber}}
- Jurisdiction: {{.Jurisdiction}}
- Data Completeness: {{.Completeness}}%

YOUR TASK:
Analyze this business based on the information provided. Be SPECIFIC:
- If registration number is provided, reference it in findings
- If jurisdiction is provided, comment on it specifically
- If information is missing, note it as a risk factor
- Don't make assumptions about data that isn't provided

COMPLIANCE CRITERIA:
- Registration Number: REQUIRED for business verification
- Jurisdiction: Needed to assess regulatory requirements
- Business Name: Required for entity identification

Return JSON format:
{
  "findings": ["Specific finding 1", "Finding 2", "Finding 3", "Finding 4"],
  "recommendations": ["Recommendation 1", "Recommendation 2"],
  "riskFactors": ["Risk 1 if any", "Risk 2 if any"],
  "confidence": 75
}

Be honest about what you can and cannot verify based on the data provided.`))

const kybSystemPrompt = "You are a senior KYB compliance officer with 20 years of experience in business verification, corporate due diligence, and regulatory compliance. Provide accurate, data-driven analysis. Be specific about what information is present vs missing."

// notProvided marks absent fields inside prompts so the model does not
// hallucinate values for them.
const notProvided = "NOT PROVIDED"

type kybResponse struct {
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
	RiskFactors     []string `json:"riskFactors"`
	Confidence      *float64 `json:"confidence"`
}

// KYBEvaluator produces business verification verdicts, mirroring the
// KYC evaluator's primary/fallback split for organization records.
type KYBEvaluator struct {
	base
}

func NewKYBEvaluator(client ports.LLMClient, logger *slog.Logger, metrics ports.MetricsCollector) *KYBEvaluator {
	return &KYBEvaluator{base: newBase("kyb_evaluator", client, logger, metrics)}
}

// Evaluate analyzes one business verification submission.
func (e *KYBEvaluator) Evaluate(ctx context.Context, in domain.KYBInput) (domain.KYBVerdict, bool) {
	sig := domain.NormalizeKYB(in)
	fallback := domain.FallbackKYBVerdict(in, sig)

	if e.llm == nil {
		e.logger.WarnContext(ctx, "llm client not configured, using rule-based analysis", "org_id", in.OrgID)
		e.recordOutcome(string(domain.DomainKYB), pathFallback)
		return fallback, true
	}

	ctx, span := e.tracer.Start(ctx, "kyb.evaluate", trace.WithAttributes(
		attribute.String("org.id", in.OrgID),
	))
	defer span.End()

	var prompt bytes.Buffer
	if err := kybPromptTemplate.Execute(&prompt, map[string]string{
		"OrgID":              in.OrgID,
		"BusinessName":       orDefault(in.BusinessName, notProvided),
		"RegistrationNumber": orDefault(in.RegistrationNumber, notProvided),
		"Jurisdiction":       orDefault(in.Jurisdiction, notProvided),
		"Completeness":       strconv.Itoa(sig.Completeness),
	}); err != nil {
		e.logger.ErrorContext(ctx, "kyb prompt render failed", "org_id", in.OrgID, "error", err)
		e.recordOutcome(string(domain.DomainKYB), pathDegraded)
		return fallback, true
	}

	raw, err := e.llm.Complete(ctx, prompt.String(), jsonRequestOptions(kybSystemPrompt, 0.2, 700))
	if err != nil {
		e.logger.WarnContext(ctx, "kyb llm call failed, falling back", "org_id", in.OrgID, "error", err)
		span.RecordError(err)
		e.recordOutcome(string(domain.DomainKYB), pathDegraded)
		return fallback, true
	}

	var resp kybResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		e.logger.WarnContext(ctx, "kyb llm response unparseable, falling back", "org_id", in.OrgID, "error", invalidResponse(err))
		e.recordOutcome(string(domain.DomainKYB), pathDegraded)
		return fallback, true
	}

	e.recordOutcome(string(domain.DomainKYB), pathPrimary)
	verdict := domain.KYBVerdict{
		Findings:        mergeList(resp.Findings, fallback.Findings),
		Recommendations: mergeList(resp.Recommendations, fallback.Recommendations),
		RiskFactors:     mergeList(resp.RiskFactors, fallback.RiskFactors),
		Confidence:      mergeConfidence(resp.Confidence, fallback.Confidence),
	}
	e.logger.InfoContext(ctx, "kyb analysis complete", "org_id", in.OrgID, "confidence", verdict.Confidence)
	return verdict, false
}
