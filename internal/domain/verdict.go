package domain

// Confidence bounds for every verdict that carries a numeric confidence.
const (
	MinConfidence = 0
	MaxConfidence = 100
)

// Rating is the categorical assessment attached to a pitch verdict.
type Rating string

// The three pitch ratings. The mapping from overall score to rating is
// monotonic under the thresholds in fallback_pitch.go.
const (
	RatingHigh   Rating = "High"
	RatingNormal Rating = "Normal"
	RatingLow    Rating = "Low"
)

// Valid reports whether r is one of the three defined ratings.
// Remote responses carrying anything else are discarded by the merger.
func (r Rating) Valid() bool {
	switch r {
	case RatingHigh, RatingNormal, RatingLow:
		return true
	}
	return false
}

// Sentiment is the overall tone of a summarized conversation.
type Sentiment string

// Defined sentiments. The fallback path always reports neutral because it
// performs no content analysis.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is one of the three defined sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// KYCVerdict is the structured result of an identity-verification analysis.
// Findings are ordered and reference concrete submitted values;
// recommendations are ordered most urgent first.
type KYCVerdict struct {
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
	RiskFactors     []string `json:"riskFactors"`
	Confidence      int      `json:"confidence"`
}

// KYBVerdict is the structured result of a business-verification analysis.
type KYBVerdict struct {
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
	RiskFactors     []string `json:"riskFactors"`
	Confidence      int      `json:"confidence"`
}

// PitchVerdict is the structured result of a pitch review.
// OverallScore is the weighted rubric composite in [0,100]; Rating is
// monotonically derived from it together with the presence signals.
type PitchVerdict struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Rating          Rating   `json:"rating"`
	OverallScore    int      `json:"overallScore"`
	Confidence      int      `json:"confidence"`
}

// ChatSummary is the structured result of a conversation summarization.
// It carries no numeric confidence; sentiment stands in for it.
type ChatSummary struct {
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"keyPoints"`
	Actions   []string  `json:"actions"`
	Sentiment Sentiment `json:"sentiment"`
}

// FinancialVerdict is the structured result of a transaction analysis.
type FinancialVerdict struct {
	Verified        bool     `json:"verified"`
	Findings        []string `json:"findings"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Confidence      int      `json:"confidence"`
}

// ClampConfidence forces a confidence value into [min,max].
// Both the fallback math and merged remote values pass through this.
func ClampConfidence(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
