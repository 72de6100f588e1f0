package evaluators

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/ports"
	"github.com/raftai/engine/internal/testutils"
)

func sampleChat(messages int) domain.ChatInput {
	in := domain.ChatInput{RoomID: "room-1"}
	senders := []string{"alice", "bob"}
	for i := 0; i < messages; i++ {
		in.Messages = append(in.Messages, domain.ChatMessage{
			Sender: senders[i%len(senders)],
			Text:   fmt.Sprintf("message number %d", i+1),
		})
	}
	return in
}

func TestChatEvaluator_EmptyRoomHasCanonicalAnswer(t *testing.T) {
	// The empty answer is identical with and without a client.
	for name, client := range map[string]*testutils.MockLLMClient{
		"no client":   nil,
		"with client": testutils.NewMockLLMClient("mock-model"),
	} {
		t.Run(name, func(t *testing.T) {
			evaluator := NewChatEvaluator(clientOrNil(client), nil, nil)

			summary, degraded := evaluator.Summarize(context.Background(), domain.ChatInput{RoomID: "room-0"})

			assert.False(t, degraded)
			assert.Equal(t, "No messages to summarize", summary.Summary)
			assert.Empty(t, summary.KeyPoints)
			assert.Empty(t, summary.Actions)
			assert.Equal(t, domain.SentimentNeutral, summary.Sentiment)
			if client != nil {
				assert.Zero(t, client.CallCount())
			}
		})
	}
}

func TestChatEvaluator_NoClientSummarizesFromCounts(t *testing.T) {
	evaluator := NewChatEvaluator(nil, nil, nil)

	summary, degraded := evaluator.Summarize(context.Background(), sampleChat(6))

	assert.True(t, degraded)
	assert.Contains(t, summary.Summary, "6 messages")
	assert.Contains(t, summary.Summary, "2 participants")
	assert.Equal(t, domain.SentimentNeutral, summary.Sentiment)
	assert.Empty(t, summary.Actions)
}

func TestChatEvaluator_PrimaryPathExtractsActions(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	evaluator := NewChatEvaluator(client, nil, nil)

	summary, degraded := evaluator.Summarize(context.Background(), sampleChat(6))

	assert.False(t, degraded)
	assert.Equal(t, domain.SentimentPositive, summary.Sentiment)
	assert.Equal(t, []string{"Send revised term sheet"}, summary.Actions)
}

func TestChatEvaluator_RemoteFailureUsesDegradedTier(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	client.SetError(errors.New("timeout"))
	evaluator := NewChatEvaluator(client, nil, nil)
	in := sampleChat(6)

	summary, degraded := evaluator.Summarize(context.Background(), in)

	assert.True(t, degraded)
	expected := domain.DegradedChatSummary(domain.NormalizeChat(in))
	assert.Equal(t, expected, summary)
	assert.Contains(t, summary.Summary, "temporarily unavailable")
}

func TestChatEvaluator_PromptWindowsLastFiftyMessages(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	evaluator := NewChatEvaluator(client, nil, nil)

	evaluator.Summarize(context.Background(), sampleChat(60))

	require.Len(t, client.Prompts, 1)
	prompt := client.Prompts[0]
	assert.NotContains(t, prompt, "message number 10\n")
	assert.Contains(t, prompt, "message number 11")
	assert.Contains(t, prompt, "message number 60")
	// Totals still reflect the whole conversation.
	assert.Contains(t, prompt, "Total Messages: 60")
}

func TestChatEvaluator_InvalidSentimentStaysNeutral(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-model")
	client.AddResponse(testutils.MockResponse{
		Pattern:  "deal room analyst",
		Response: `{"summary": "Quick sync.", "keyPoints": ["Status update"], "actions": [], "sentiment": "ecstatic"}`,
	})
	evaluator := NewChatEvaluator(client, nil, nil)

	summary, degraded := evaluator.Summarize(context.Background(), sampleChat(4))

	assert.False(t, degraded)
	assert.Equal(t, domain.SentimentNeutral, summary.Sentiment)
	assert.Equal(t, "Quick sync.", summary.Summary)
}

// clientOrNil converts a typed nil mock into a nil interface.
func clientOrNil(c *testutils.MockLLMClient) ports.LLMClient {
	if c == nil {
		return nil
	}
	return c
}
