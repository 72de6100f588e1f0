package evaluators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/ports"
)

// chatWindowSize caps how many trailing messages are sent to the model.
// Older messages still count toward the participant and message totals.
const chatWindowSize = 50

var chatPromptTemplate = template.Must(template.New("chat").Parse(
	`You are an expert deal room analyst reviewing a business conversation. Provide ACCURATE, SPECIFIC analysis.

CONVERSATION DETAILS:
- Total Messages: {{.MessageCount}}
- Participants: {{.ParticipantCount}}
- Context: Business/Investment Discussion

CONVERSATION:
{{.ChatText}}

YOUR TASK:
Analyze this conversation and extract:
1. Main topics and discussion themes
2. Key decisions or agreements made
3. Action items with who needs to do what
4. Overall sentiment and deal progress

IMPORTANT:
- Be SPECIFIC - reference actual points discussed
- Extract REAL action items mentioned in chat
- Assess if this is progressing toward a deal or not
- Note any concerns or blockers mentioned

Return JSON:
{
  "summary": "Specific 2-3 sentence summary of what was discussed and decided",
  "keyPoints": ["Point 1 with specifics", "Point 2", "Point 3", "Point 4", "Point 5"],
  "actions": ["Action: Person should do X by Y", "Action 2 if any"],
  "sentiment": "positive" | "neutral" | "negative"
}

Sentiment guide:
- Positive: Deal progressing, agreements made, enthusiasm
- Neutral: Information exchange, questions, no clear direction
- Negative: Disagreements, concerns raised, deal at risk`))

const chatSystemPrompt = "You are a senior business analyst specialized in deal room communications with 15+ years of experience in VC and M&A. Extract accurate, actionable insights from conversations. Be specific and reference actual content discussed."

type chatResponse struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Actions   []string `json:"actions"`
	Sentiment string   `json:"sentiment"`
}

// ChatEvaluator summarizes deal room conversations. Message content only
// ever leaves the process on the primary path; the fallback tiers work
// from counts alone and never inspect message text.
type ChatEvaluator struct {
	base
}

func NewChatEvaluator(client ports.LLMClient, logger *slog.Logger, metrics ports.MetricsCollector) *ChatEvaluator {
	return &ChatEvaluator{base: newBase("chat_evaluator", client, logger, metrics)}
}

// Summarize analyzes one conversation.
func (e *ChatEvaluator) Summarize(ctx context.Context, in domain.ChatInput) (domain.ChatSummary, bool) {
	sig := domain.NormalizeChat(in)

	// An empty room has one canonical answer on every path.
	if sig.MessageCount == 0 {
		return domain.FallbackChatSummary(sig), false
	}

	if e.llm == nil {
		e.logger.WarnContext(ctx, "llm client not configured, using metadata summary", "room_id", in.RoomID)
		e.recordOutcome(string(domain.DomainChat), pathFallback)
		return domain.FallbackChatSummary(sig), true
	}

	ctx, span := e.tracer.Start(ctx, "chat.summarize", trace.WithAttributes(
		attribute.String("room.id", in.RoomID),
		attribute.Int("chat.messages", sig.MessageCount),
	))
	defer span.End()

	window := in.Messages
	if len(window) > chatWindowSize {
		window = window[len(window)-chatWindowSize:]
	}
	var transcript strings.Builder
	for i, m := range window {
		fmt.Fprintf(&transcript, "[%d] %s: %s\n", i+1, m.Sender, m.Text)
	}

	var prompt bytes.Buffer
	if err := chatPromptTemplate.Execute(&prompt, map[string]any{
		"MessageCount":     sig.MessageCount,
		"ParticipantCount": sig.ParticipantCount,
		"ChatText":         strings.TrimRight(transcript.String(), "\n"),
	}); err != nil {
		e.logger.ErrorContext(ctx, "chat prompt render failed", "room_id", in.RoomID, "error", err)
		e.recordOutcome(string(domain.DomainChat), pathDegraded)
		return domain.DegradedChatSummary(sig), true
	}

	raw, err := e.llm.Complete(ctx, prompt.String(), jsonRequestOptions(chatSystemPrompt, 0.25, 800))
	if err != nil {
		e.logger.WarnContext(ctx, "chat llm call failed, falling back", "room_id", in.RoomID, "error", err)
		span.RecordError(err)
		e.recordOutcome(string(domain.DomainChat), pathDegraded)
		return domain.DegradedChatSummary(sig), true
	}

	var resp chatResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		e.logger.WarnContext(ctx, "chat llm response unparseable, falling back", "room_id", in.RoomID, "error", invalidResponse(err))
		e.recordOutcome(string(domain.DomainChat), pathDegraded)
		return domain.DegradedChatSummary(sig), true
	}

	fallback := domain.FallbackChatSummary(sig)
	sentiment := fallback.Sentiment
	if s := domain.Sentiment(resp.Sentiment); s.Valid() {
		sentiment = s
	}

	e.recordOutcome(string(domain.DomainChat), pathPrimary)
	summary := domain.ChatSummary{
		Summary:   mergeString(resp.Summary, fallback.Summary),
		KeyPoints: mergeList(resp.KeyPoints, fallback.KeyPoints),
		// Empty is a legitimate model answer here: many conversations
		// simply contain no action items.
		Actions:   mergeList(resp.Actions, []string{}),
		Sentiment: sentiment,
	}
	e.logger.InfoContext(ctx, "chat summary complete",
		"room_id", in.RoomID, "sentiment", summary.Sentiment, "actions", len(summary.Actions))
	return summary, false
}
