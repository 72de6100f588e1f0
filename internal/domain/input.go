// Package domain contains the evaluation core: submission inputs, the
// signals derived from them, verdict types, scoring rubrics, and the
// deterministic fallback evaluators.
//
// Everything in this package is pure. The same input always yields the same
// signals and the same fallback verdict, with no network access and no
// shared mutable state. The LLM-backed primary path lives in
// infrastructure and consumes these types.
package domain

import "time"

// KYCInput is the raw identity-verification submission for one user.
// Every field beyond the identifier is optional; absent scores are treated
// as zero by the normalizer.
type KYCInput struct {
	// UserID identifies the submission. It is logged but never embedded in
	// error messages alongside submission content.
	UserID string `json:"userId"`

	// LivenessScore measures whether a live person was present during
	// capture, in [0,1]. Zero means absent or failed.
	LivenessScore float64 `json:"livenessScore,omitempty"`

	// FaceMatchScore measures how well the captured face matches the ID
	// document, in [0,1].
	FaceMatchScore float64 `json:"faceMatchScore,omitempty"`

	// DocumentType names the submitted identity document, e.g. "Passport".
	DocumentType string `json:"documentType,omitempty"`
}

// KYBInput is the raw business-verification submission for one organization.
type KYBInput struct {
	OrgID              string `json:"orgId"`
	BusinessName       string `json:"businessName,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`

	// Jurisdiction is an ISO 3166-1 alpha-2 country code.
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// Tokenomics describes the token economics attached to a pitch.
type Tokenomics struct {
	// TotalSupply is the total token supply. Zero or negative means the
	// supply was not provided.
	TotalSupply float64 `json:"totalSupply,omitempty"`

	// TGEPercent is the share of supply unlocked at the token generation
	// event, as a percentage in [0,100]. Zero means not provided.
	TGEPercent float64 `json:"tgePercent,omitempty"`

	// Vesting is a free-text description of the vesting schedule.
	Vesting string `json:"vesting,omitempty"`
}

// PitchInput is the raw project pitch submitted for review.
// Sector, Stage and Chain are free text; the rubric canonicalizes them
// before scoring so unknown values land on a defined default.
type PitchInput struct {
	ProjectID  string      `json:"projectId"`
	Title      string      `json:"title"`
	Summary    string      `json:"summary,omitempty"`
	Sector     string      `json:"sector,omitempty"`
	Stage      string      `json:"stage,omitempty"`
	Chain      string      `json:"chain,omitempty"`
	Tokenomics *Tokenomics `json:"tokenomics,omitempty"`
}

// ChatMessage is a single message in a deal room conversation.
type ChatMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ChatInput is the transcript submitted for summarization.
type ChatInput struct {
	RoomID   string        `json:"roomId,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// FinancialInput is the raw transaction record submitted for verification.
type FinancialInput struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Description   string  `json:"description,omitempty"`
}
