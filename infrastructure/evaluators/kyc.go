package evaluators

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"text/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/ports"
)

// kycPromptTemplate frames the identity verification scores for the model
// together with the pass thresholds so the remote assessment stays anchored
// to the same rubric the fallback uses.
var kycPromptTemplate = template.Must(template.New("kyc").Parse(
	`You are a professional KYC compliance analyst reviewing identity verification data. Provide a thorough, accurate assessment.

VERIFICATION DATA:
- User ID: {{.UserID}}
- Liveness Score: {{.LivenessPercent}}% (measures if person is physically present, not a photo/video)
- Face Match Score: {{.FaceMatchPercent}}% (measures how well face matches ID document)
- Document Type: {{.DocumentType}}

SCORING GUIDELINES:
- Liveness >=75%: Excellent (real person confirmed)
- Liveness 60-74%: Good (likely real person)
- Liveness <60%: Poor (potential fraud)
- Face Match >=82%: Strong match
- Face Match 70-81%: Acceptable match
- Face Match <70%: Weak match

YOUR TASK:
Analyze these scores and provide ACCURATE, SPECIFIC findings based on the actual numbers. Don't be generic.

Return JSON format:
{
  "findings": ["Specific finding 1 with actual percentages", "Finding 2", "Finding 3", "Finding 4"],
  "recommendations": ["Specific action 1", "Action 2"],
  "riskFactors": ["Risk 1 if any", "Risk 2 if any"],
  "confidence": 85
}

Be precise and reference the actual scores in your findings. If scores are high, be positive. If scores are low, be cautious.`))

const kycSystemPrompt = "You are a senior KYC compliance analyst with 15 years of experience in identity verification and fraud detection. Provide accurate, data-driven analysis based on the exact scores provided. Be specific, not generic."

// kycResponse is the JSON shape expected back from the model. The pointer
// field distinguishes absent from zero so the merge step can substitute
// the deterministic value per field.
type kycResponse struct {
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
	RiskFactors     []string `json:"riskFactors"`
	Confidence      *float64 `json:"confidence"`
}

// KYCEvaluator produces identity verification verdicts. With a configured
// LLM client it asks the model for an assessment and reconciles the answer
// against the rule-based verdict; without one it returns the rule-based
// verdict directly.
type KYCEvaluator struct {
	base
}

// NewKYCEvaluator constructs a KYC evaluator. A nil client is valid and
// pins the evaluator to the deterministic path.
func NewKYCEvaluator(client ports.LLMClient, logger *slog.Logger, metrics ports.MetricsCollector) *KYCEvaluator {
	return &KYCEvaluator{base: newBase("kyc_evaluator", client, logger, metrics)}
}

// Evaluate analyzes one identity verification submission. The returned
// bool reports whether the verdict is rule-based only (degraded) rather
// than model-backed.
func (e *KYCEvaluator) Evaluate(ctx context.Context, in domain.KYCInput) (domain.KYCVerdict, bool) {
	sig := domain.NormalizeKYC(in)
	fallback := domain.FallbackKYCVerdict(sig)

	if e.llm == nil {
		e.logger.WarnContext(ctx, "llm client not configured, using rule-based analysis", "user_id", in.UserID)
		e.recordOutcome(string(domain.DomainKYC), pathFallback)
		return fallback, true
	}

	ctx, span := e.tracer.Start(ctx, "kyc.evaluate", trace.WithAttributes(
		attribute.String("user.id", in.UserID),
	))
	defer span.End()

	var prompt bytes.Buffer
	if err := kycPromptTemplate.Execute(&prompt, map[string]string{
		"UserID":           in.UserID,
		"LivenessPercent":  sig.LivenessPercent,
		"FaceMatchPercent": sig.FaceMatchPercent,
		"DocumentType":     sig.DocumentType,
	}); err != nil {
		e.logger.ErrorContext(ctx, "kyc prompt render failed", "user_id", in.UserID, "error", err)
		e.recordOutcome(string(domain.DomainKYC), pathDegraded)
		return fallback, true
	}

	raw, err := e.llm.Complete(ctx, prompt.String(), jsonRequestOptions(kycSystemPrompt, 0.2, 600))
	if err != nil {
		e.logger.WarnContext(ctx, "kyc llm call failed, falling back", "user_id", in.UserID, "error", err)
		span.RecordError(err)
		e.recordOutcome(string(domain.DomainKYC), pathDegraded)
		return fallback, true
	}

	var resp kycResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		e.logger.WarnContext(ctx, "kyc llm response unparseable, falling back", "user_id", in.UserID, "error", invalidResponse(err))
		e.recordOutcome(string(domain.DomainKYC), pathDegraded)
		return fallback, true
	}

	e.recordOutcome(string(domain.DomainKYC), pathPrimary)
	verdict := domain.KYCVerdict{
		Findings:        mergeList(resp.Findings, fallback.Findings),
		Recommendations: mergeList(resp.Recommendations, fallback.Recommendations),
		RiskFactors:     mergeList(resp.RiskFactors, fallback.RiskFactors),
		Confidence:      mergeConfidence(resp.Confidence, fallback.Confidence),
	}
	e.logger.InfoContext(ctx, "kyc analysis complete", "user_id", in.UserID, "confidence", verdict.Confidence)
	return verdict, false
}
