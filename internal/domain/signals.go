package domain

import "strconv"

// Completeness weights. The KYB weights are asymmetric on purpose: the
// business name carries the remainder point so the three fields sum to 100.
const (
	kybRegistrationWeight = 33
	kybJurisdictionWeight = 33
	kybBusinessNameWeight = 34

	financialAmountWeight      = 40
	financialCurrencyWeight    = 30
	financialDescriptionWeight = 30
)

// Verification thresholds shared by the prompt rubrics and the fallback
// scoring. Scores are fractions in [0,1].
const (
	LivenessPassThreshold    = 0.75
	LivenessPartialThreshold = 0.60
	LivenessFraudThreshold   = 0.50

	FaceMatchPassThreshold    = 0.82
	FaceMatchPartialThreshold = 0.70
	FaceMatchPoorThreshold    = 0.60
)

// MinSummaryLength is the minimum summary length for a pitch to count as
// having a usable description.
const MinSummaryLength = 50

// KYCSignals are the facts derived once from a KYCInput and consumed
// identically by the primary and fallback evaluators.
type KYCSignals struct {
	LivenessScore    float64
	FaceMatchScore   float64
	LivenessPercent  string // formatted to one decimal, e.g. "87.5"
	FaceMatchPercent string
	LivenessPass     bool
	FaceMatchPass    bool
	BothPass         bool
	DocumentType     string
}

// NormalizeKYC derives verification signals from a raw submission.
// Absent scores default to zero; the document type defaults to a generic
// government ID.
func NormalizeKYC(in KYCInput) KYCSignals {
	liveness := in.LivenessScore
	faceMatch := in.FaceMatchScore
	docType := in.DocumentType
	if docType == "" {
		docType = "Government ID"
	}

	livenessPass := liveness >= LivenessPassThreshold
	faceMatchPass := faceMatch >= FaceMatchPassThreshold

	return KYCSignals{
		LivenessScore:    liveness,
		FaceMatchScore:   faceMatch,
		LivenessPercent:  formatPercent(liveness),
		FaceMatchPercent: formatPercent(faceMatch),
		LivenessPass:     livenessPass,
		FaceMatchPass:    faceMatchPass,
		BothPass:         livenessPass && faceMatchPass,
		DocumentType:     docType,
	}
}

// KYBSignals are the facts derived once from a KYBInput.
type KYBSignals struct {
	HasRegistration bool
	HasJurisdiction bool
	HasBusinessName bool
	AllInfoProvided bool
	PartialInfo     bool
	Restricted      bool
	Completeness    int // weighted percentage in [0,100]
}

// NormalizeKYB derives business-verification signals from a raw submission.
func NormalizeKYB(in KYBInput) KYBSignals {
	hasRegistration := in.RegistrationNumber != ""
	hasJurisdiction := in.Jurisdiction != ""
	hasBusinessName := in.BusinessName != ""

	completeness := 0
	if hasRegistration {
		completeness += kybRegistrationWeight
	}
	if hasJurisdiction {
		completeness += kybJurisdictionWeight
	}
	if hasBusinessName {
		completeness += kybBusinessNameWeight
	}

	return KYBSignals{
		HasRegistration: hasRegistration,
		HasJurisdiction: hasJurisdiction,
		HasBusinessName: hasBusinessName,
		AllInfoProvided: hasRegistration && hasJurisdiction && hasBusinessName,
		PartialInfo:     hasRegistration || hasJurisdiction || hasBusinessName,
		Restricted:      hasJurisdiction && IsRestrictedJurisdiction(in.Jurisdiction),
		Completeness:    completeness,
	}
}

// PitchSignals are the facts derived once from a PitchInput.
type PitchSignals struct {
	HasSummary    bool
	SummaryLength int
	HasTokenomics bool
	TotalSupply   float64
	TGEPercent    float64
}

// NormalizePitch derives presence signals from a raw pitch. A summary only
// counts when it is longer than MinSummaryLength; tokenomics only count
// when a positive total supply was provided.
func NormalizePitch(in PitchInput) PitchSignals {
	s := PitchSignals{
		SummaryLength: len(in.Summary),
	}
	s.HasSummary = s.SummaryLength > MinSummaryLength

	if in.Tokenomics != nil && in.Tokenomics.TotalSupply > 0 {
		s.HasTokenomics = true
		s.TotalSupply = in.Tokenomics.TotalSupply
		s.TGEPercent = in.Tokenomics.TGEPercent
	}
	return s
}

// ChatSignals are the facts derived once from a ChatInput.
type ChatSignals struct {
	MessageCount     int
	ParticipantCount int
}

// NormalizeChat counts messages and distinct senders.
func NormalizeChat(in ChatInput) ChatSignals {
	senders := make(map[string]struct{}, len(in.Messages))
	for _, m := range in.Messages {
		senders[m.Sender] = struct{}{}
	}
	return ChatSignals{
		MessageCount:     len(in.Messages),
		ParticipantCount: len(senders),
	}
}

// FinancialSignals are the facts derived once from a FinancialInput.
type FinancialSignals struct {
	HasAmount      bool
	HasCurrency    bool
	HasDescription bool
	Completeness   int // weighted percentage in [0,100]
}

// NormalizeFinancial derives transaction signals from a raw record.
// An amount only counts when it is strictly positive.
func NormalizeFinancial(in FinancialInput) FinancialSignals {
	hasAmount := in.Amount > 0
	hasCurrency := in.Currency != ""
	hasDescription := in.Description != ""

	completeness := 0
	if hasAmount {
		completeness += financialAmountWeight
	}
	if hasCurrency {
		completeness += financialCurrencyWeight
	}
	if hasDescription {
		completeness += financialDescriptionWeight
	}

	return FinancialSignals{
		HasAmount:      hasAmount,
		HasCurrency:    hasCurrency,
		HasDescription: hasDescription,
		Completeness:   completeness,
	}
}

// formatPercent renders a [0,1] fraction as a percentage with one decimal,
// matching the precision used in the prompt rubrics.
func formatPercent(score float64) string {
	return strconv.FormatFloat(score*100, 'f', 1, 64)
}
