package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 20, ClampConfidence(5, 20, 95))
	assert.Equal(t, 95, ClampConfidence(120, 20, 95))
	assert.Equal(t, 50, ClampConfidence(50, 20, 95))
	assert.Equal(t, MinConfidence, ClampConfidence(-1, MinConfidence, MaxConfidence))
}

func TestRatingValid(t *testing.T) {
	assert.True(t, RatingHigh.Valid())
	assert.True(t, RatingNormal.Valid())
	assert.True(t, RatingLow.Valid())
	assert.False(t, Rating("").Valid())
	assert.False(t, Rating("high").Valid())
	assert.False(t, Rating("Excellent").Valid())
}

func TestSentimentValid(t *testing.T) {
	assert.True(t, SentimentPositive.Valid())
	assert.True(t, SentimentNeutral.Valid())
	assert.True(t, SentimentNegative.Valid())
	assert.False(t, Sentiment("").Valid())
	assert.False(t, Sentiment("Positive").Valid())
	assert.False(t, Sentiment("mixed").Valid())
}
