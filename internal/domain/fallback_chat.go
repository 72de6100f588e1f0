package domain

import "fmt"

// FallbackChatSummary produces a conversation summary from message and
// participant counts alone. No content analysis happens on this path, so
// sentiment is always neutral and no action items are extracted.
func FallbackChatSummary(sig ChatSignals) ChatSummary {
	if sig.MessageCount == 0 {
		return ChatSummary{
			Summary:   "No messages to summarize",
			KeyPoints: []string{},
			Actions:   []string{},
			Sentiment: SentimentNeutral,
		}
	}

	return ChatSummary{
		Summary: fmt.Sprintf(
			"Business conversation with %d messages between %d participants. AI summarization unavailable - summary generated from conversation metadata.",
			sig.MessageCount, sig.ParticipantCount),
		KeyPoints: []string{
			fmt.Sprintf("%d participants in discussion", sig.ParticipantCount),
			fmt.Sprintf("%d total messages exchanged", sig.MessageCount),
			"Topic extraction requires the AI analysis path",
		},
		Actions:   []string{},
		Sentiment: SentimentNeutral,
	}
}

// DegradedChatSummary is the minimal summary produced when a live remote
// call fails mid-request. It is intentionally sparser than
// FallbackChatSummary: the two tiers are distinct and both deterministic.
func DegradedChatSummary(sig ChatSignals) ChatSummary {
	if sig.MessageCount == 0 {
		return FallbackChatSummary(sig)
	}

	return ChatSummary{
		Summary: fmt.Sprintf(
			"Business conversation with %d messages between %d participants. Analysis temporarily unavailable.",
			sig.MessageCount, sig.ParticipantCount),
		KeyPoints: []string{
			fmt.Sprintf("%d participants involved", sig.ParticipantCount),
			fmt.Sprintf("%d total messages", sig.MessageCount),
			"Conversation analysis pending",
		},
		Actions:   []string{},
		Sentiment: SentimentNeutral,
	}
}
