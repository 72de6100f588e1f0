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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/ports"
)

var pitchPromptTemplate = template.Must(template.New("pitch").Parse(
	`You are a top-tier crypto VC analyst evaluating a blockchain project. Provide SPECIFIC, ACTIONABLE analysis.

PROJECT DETAILS:
- Project Name: {{.Title}}
- Sector: {{.Sector}}
- Development Stage: {{.Stage}}
- Blockchain: {{.Chain}}
- Description: {{.Summary}}

TOKENOMICS:
- Total Supply: {{.TotalSupply}}
- TGE (Token Generation Event): {{.TGE}}
- Vesting Schedule: {{.Vesting}}

ANALYSIS CRITERIA:

Stage Assessment:
- Idea: 20-40 score (concept only)
- MVP: 40-60 score (basic prototype)
- Beta: 60-75 score (testing phase)
- Live: 75-90 score (operational)
- Scaling: 85-95 score (growing)

Sector Strength (DeFi, AI, Infrastructure highest):
- DeFi/AI/Infrastructure: Premium sectors
- Gaming/NFT: Moderate potential
- Other: Needs strong differentiation

Blockchain Analysis:
- Ethereum: Most established, high credibility
- Solana/Arbitrum/Base: Strong performance chains
- Others: Assess specific advantages

YOUR TASK:
Provide HONEST, SPECIFIC analysis. Reference actual data. Don't be generic.

Return JSON:
{
  "summary": "2-3 sentence assessment referencing specific details from the project",
  "strengths": ["Specific strength 1 with data", "Strength 2", "Strength 3"],
  "weaknesses": ["Specific weakness 1", "Weakness 2", "Weakness 3"],
  "risks": ["Specific risk 1", "Risk 2", "Risk 3"],
  "recommendations": ["Actionable rec 1", "Rec 2", "Rec 3"],
  "rating": "High" | "Normal" | "Low",
  "confidence": 75
}

Be critical but fair. Consider real market conditions.`))

const pitchSystemPrompt = "You are a partner at a top-tier crypto VC firm with 10+ years of experience evaluating blockchain projects. You have invested in successful projects like Ethereum, Solana, and major DeFi protocols. Provide brutally honest, data-driven analysis. Be specific and reference actual project details. Your reputation depends on accuracy."

var supplyPrinter = message.NewPrinter(language.English)

type pitchResponse struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Rating          string   `json:"rating"`
	Confidence      *float64 `json:"confidence"`
}

// PitchEvaluator scores project pitches against a sector/stage/chain
// rubric. The deterministic composite score is authoritative: even when
// the model answers, OverallScore always comes from the rubric so two
// identical submissions never score differently.
type PitchEvaluator struct {
	base
	rubric *domain.Rubric
}

// NewPitchEvaluator constructs a pitch evaluator. A nil rubric selects
// the built-in default tables.
func NewPitchEvaluator(client ports.LLMClient, rubric *domain.Rubric, logger *slog.Logger, metrics ports.MetricsCollector) *PitchEvaluator {
	if rubric == nil {
		rubric = domain.DefaultRubric()
	}
	return &PitchEvaluator{
		base:   newBase("pitch_evaluator", client, logger, metrics),
		rubric: rubric,
	}
}

// Evaluate analyzes one pitch submission.
func (e *PitchEvaluator) Evaluate(ctx context.Context, in domain.PitchInput) (domain.PitchVerdict, bool) {
	sig := domain.NormalizePitch(in)
	fallback := domain.FallbackPitchVerdict(in, sig, e.rubric)

	if e.llm == nil {
		e.logger.WarnContext(ctx, "llm client not configured, using rule-based analysis", "project_id", in.ProjectID)
		e.recordOutcome(string(domain.DomainPitch), pathFallback)
		return fallback, true
	}

	ctx, span := e.tracer.Start(ctx, "pitch.evaluate", trace.WithAttributes(
		attribute.String("project.id", in.ProjectID),
		attribute.String("project.sector", in.Sector),
	))
	defer span.End()

	supply := notProvided
	tge := "N/A"
	vesting := "N/A"
	if sig.HasTokenomics {
		supply = supplyPrinter.Sprintf("%d", int64(sig.TotalSupply))
		if sig.TGEPercent > 0 {
			tge = strconv.FormatFloat(sig.TGEPercent, 'f', -1, 64) + "%"
		}
		if in.Tokenomics.Vesting != "" {
			vesting = in.Tokenomics.Vesting
		}
	}

	var prompt bytes.Buffer
	if err := pitchPromptTemplate.Execute(&prompt, map[string]string{
		"Title":       in.Title,
		"Sector":      in.Sector,
		"Stage":       in.Stage,
		"Chain":       in.Chain,
		"Summary":     orDefault(in.Summary, notProvided+" - This is a RED FLAG"),
		"TotalSupply": supply,
		"TGE":         tge,
		"Vesting":     vesting,
	}); err != nil {
		e.logger.ErrorContext(ctx, "pitch prompt render failed", "project_id", in.ProjectID, "error", err)
		e.recordOutcome(string(domain.DomainPitch), pathDegraded)
		return fallback, true
	}

	raw, err := e.llm.Complete(ctx, prompt.String(), jsonRequestOptions(pitchSystemPrompt, 0.3, 1200))
	if err != nil {
		e.logger.WarnContext(ctx, "pitch llm call failed, falling back", "project_id", in.ProjectID, "error", err)
		span.RecordError(err)
		e.recordOutcome(string(domain.DomainPitch), pathDegraded)
		return fallback, true
	}

	var resp pitchResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		e.logger.WarnContext(ctx, "pitch llm response unparseable, falling back", "project_id", in.ProjectID, "error", invalidResponse(err))
		e.recordOutcome(string(domain.DomainPitch), pathDegraded)
		return fallback, true
	}

	rating := fallback.Rating
	if r := domain.Rating(resp.Rating); r.Valid() {
		rating = r
	}

	e.recordOutcome(string(domain.DomainPitch), pathPrimary)
	verdict := domain.PitchVerdict{
		Summary:         mergeString(resp.Summary, fallback.Summary),
		Strengths:       mergeList(resp.Strengths, fallback.Strengths),
		Weaknesses:      mergeList(resp.Weaknesses, fallback.Weaknesses),
		Risks:           mergeList(resp.Risks, fallback.Risks),
		Recommendations: mergeList(resp.Recommendations, fallback.Recommendations),
		Rating:          rating,
		OverallScore:    fallback.OverallScore,
		Confidence:      mergeConfidence(resp.Confidence, fallback.Confidence),
	}
	e.logger.InfoContext(ctx, "pitch analysis complete",
		"project_id", in.ProjectID, "rating", verdict.Rating, "score", verdict.OverallScore)
	return verdict, false
}
