package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKYC(t *testing.T) {
	tests := []struct {
		name         string
		in           KYCInput
		wantPass     bool
		wantLiveness string
		wantDocType  string
	}{
		{
			name:         "both above threshold",
			in:           KYCInput{UserID: "u1", LivenessScore: 0.90, FaceMatchScore: 0.95, DocumentType: "Passport"},
			wantPass:     true,
			wantLiveness: "90.0",
			wantDocType:  "Passport",
		},
		{
			name:         "missing scores default to zero",
			in:           KYCInput{UserID: "u2"},
			wantPass:     false,
			wantLiveness: "0.0",
			wantDocType:  "Government ID",
		},
		{
			name:         "boundary values pass",
			in:           KYCInput{UserID: "u3", LivenessScore: 0.75, FaceMatchScore: 0.82},
			wantPass:     true,
			wantLiveness: "75.0",
			wantDocType:  "Government ID",
		},
		{
			name:         "one decimal formatting",
			in:           KYCInput{UserID: "u4", LivenessScore: 0.876, FaceMatchScore: 0.9},
			wantPass:     true,
			wantLiveness: "87.6",
			wantDocType:  "Government ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := NormalizeKYC(tt.in)
			assert.Equal(t, tt.wantPass, sig.BothPass)
			assert.Equal(t, tt.wantLiveness, sig.LivenessPercent)
			assert.Equal(t, tt.wantDocType, sig.DocumentType)
		})
	}
}

func TestNormalizeKYBCompleteness(t *testing.T) {
	tests := []struct {
		name string
		in   KYBInput
		want int
	}{
		{"nothing", KYBInput{OrgID: "o"}, 0},
		{"name only", KYBInput{OrgID: "o", BusinessName: "Acme"}, 34},
		{"registration only", KYBInput{OrgID: "o", RegistrationNumber: "1"}, 33},
		{"jurisdiction only", KYBInput{OrgID: "o", Jurisdiction: "US"}, 33},
		{"registration and jurisdiction", KYBInput{OrgID: "o", RegistrationNumber: "1", Jurisdiction: "US"}, 66},
		{"everything", KYBInput{OrgID: "o", BusinessName: "Acme", RegistrationNumber: "1", Jurisdiction: "US"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := NormalizeKYB(tt.in)
			assert.Equal(t, tt.want, sig.Completeness)
		})
	}
}

func TestNormalizeKYBRestricted(t *testing.T) {
	assert.True(t, NormalizeKYB(KYBInput{OrgID: "o", Jurisdiction: "IR"}).Restricted)
	assert.True(t, NormalizeKYB(KYBInput{OrgID: "o", Jurisdiction: "kp"}).Restricted)
	assert.False(t, NormalizeKYB(KYBInput{OrgID: "o", Jurisdiction: "US"}).Restricted)
	assert.False(t, NormalizeKYB(KYBInput{OrgID: "o"}).Restricted)
}

func TestNormalizePitchSummaryThreshold(t *testing.T) {
	exactly50 := make([]byte, MinSummaryLength)
	for i := range exactly50 {
		exactly50[i] = 'a'
	}

	// Length must exceed the minimum, not merely reach it.
	assert.False(t, NormalizePitch(PitchInput{Summary: string(exactly50)}).HasSummary)
	assert.True(t, NormalizePitch(PitchInput{Summary: string(exactly50) + "b"}).HasSummary)
	assert.False(t, NormalizePitch(PitchInput{}).HasSummary)
}

func TestNormalizePitchTokenomics(t *testing.T) {
	assert.False(t, NormalizePitch(PitchInput{}).HasTokenomics)
	assert.False(t, NormalizePitch(PitchInput{Tokenomics: &Tokenomics{}}).HasTokenomics)
	assert.False(t, NormalizePitch(PitchInput{Tokenomics: &Tokenomics{TotalSupply: -5}}).HasTokenomics)

	sig := NormalizePitch(PitchInput{Tokenomics: &Tokenomics{TotalSupply: 1000, TGEPercent: 12}})
	assert.True(t, sig.HasTokenomics)
	assert.Equal(t, 1000.0, sig.TotalSupply)
	assert.Equal(t, 12.0, sig.TGEPercent)
}

func TestNormalizeChatCountsDistinctSenders(t *testing.T) {
	sig := NormalizeChat(ChatInput{RoomID: "r", Messages: []ChatMessage{
		{Sender: "a", Text: "1"},
		{Sender: "b", Text: "2"},
		{Sender: "a", Text: "3"},
	}})

	assert.Equal(t, 3, sig.MessageCount)
	assert.Equal(t, 2, sig.ParticipantCount)

	empty := NormalizeChat(ChatInput{RoomID: "r"})
	assert.Zero(t, empty.MessageCount)
	assert.Zero(t, empty.ParticipantCount)
}

func TestNormalizeFinancialWeights(t *testing.T) {
	tests := []struct {
		name string
		in   FinancialInput
		want int
	}{
		{"nothing", FinancialInput{TransactionID: "t"}, 0},
		{"amount only", FinancialInput{TransactionID: "t", Amount: 10}, 40},
		{"zero amount does not count", FinancialInput{TransactionID: "t", Amount: 0, Currency: "USD"}, 30},
		{"negative amount does not count", FinancialInput{TransactionID: "t", Amount: -5, Currency: "USD"}, 30},
		{"amount and description", FinancialInput{TransactionID: "t", Amount: 10, Description: "x"}, 70},
		{"everything", FinancialInput{TransactionID: "t", Amount: 10, Currency: "USD", Description: "x"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFinancial(tt.in).Completeness)
		})
	}
}
