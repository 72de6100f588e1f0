package domain

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Weighted composite for the pitch score. Weights sum to 1.0; descriptive
// content carries the least weight because presence alone says little about
// quality.
const (
	pitchSectorWeight     = 0.25
	pitchStageWeight      = 0.25
	pitchChainWeight      = 0.20
	pitchTokenomicsWeight = 0.20
	pitchContentWeight    = 0.10
)

// Tokenomics sub-score components. Supplies between one million and ten
// billion tokens score as a reasonable distribution; a TGE unlock above 20%
// is penalized as dump risk.
const (
	tokenomicsSupplyPresent  = 20
	tokenomicsSupplySensible = 15
	tokenomicsSupplyExcess   = 5
	tokenomicsTGEOptimal     = 15
	tokenomicsTGEPenalty     = -10

	minSensibleSupply = 1_000_000
	maxSensibleSupply = 10_000_000_000

	minOptimalTGE = 5
	maxOptimalTGE = 20
)

// Rating thresholds for the overall score. Rating stays monotone in the
// score: High additionally requires both descriptive signals, Normal at
// least one.
const (
	pitchHighScoreThreshold   = 75
	pitchNormalScoreThreshold = 50
)

// numPrinter renders token supplies with thousands separators, matching
// the formatting quoted back to submitters in findings.
var numPrinter = message.NewPrinter(language.English)

// FormatAmount renders a monetary or token amount with thousands
// separators. Whole numbers render without a decimal part, fractional
// amounts with two decimals.
func FormatAmount(amount float64) string {
	if amount == math.Trunc(amount) {
		return numPrinter.Sprintf("%d", int64(amount))
	}
	return numPrinter.Sprintf("%.2f", amount)
}

// tokenomicsBreakdown carries the sub-score and the wording attached to it.
type tokenomicsBreakdown struct {
	score  int
	detail string
}

// scoreTokenomics computes the tokenomics sub-score from the presence
// signals. The score starts at zero and accumulates per component.
func scoreTokenomics(sig PitchSignals) tokenomicsBreakdown {
	if !sig.HasTokenomics {
		return tokenomicsBreakdown{
			score:  0,
			detail: "CRITICAL: Tokenomics not defined - cannot evaluate token economics",
		}
	}

	score := tokenomicsSupplyPresent
	detail := ""
	switch {
	case sig.TotalSupply >= minSensibleSupply && sig.TotalSupply <= maxSensibleSupply:
		score += tokenomicsSupplySensible
		detail = numPrinter.Sprintf("Total supply %d tokens - reasonable distribution", int64(sig.TotalSupply))
	case sig.TotalSupply > maxSensibleSupply:
		score += tokenomicsSupplyExcess
		detail = numPrinter.Sprintf("Total supply %d tokens - may be too high", int64(sig.TotalSupply))
	default:
		detail = numPrinter.Sprintf("Total supply %d tokens", int64(sig.TotalSupply))
	}

	if sig.TGEPercent > 0 {
		switch {
		case sig.TGEPercent >= minOptimalTGE && sig.TGEPercent <= maxOptimalTGE:
			score += tokenomicsTGEOptimal
			detail += fmt.Sprintf(", TGE %g%% - optimal unlock", sig.TGEPercent)
		case sig.TGEPercent > maxOptimalTGE:
			score += tokenomicsTGEPenalty
			detail += fmt.Sprintf(", TGE %g%% - too high (dump risk)", sig.TGEPercent)
		}
	}

	if score < 0 {
		score = 0
	}
	return tokenomicsBreakdown{score: score, detail: detail}
}

// scoreContent rates the descriptive quality of the pitch text. Presence
// and length are all the deterministic path can judge.
func scoreContent(sig PitchSignals) int {
	if !sig.HasSummary {
		return 20
	}
	if sig.SummaryLength > 200 {
		return 80
	}
	return 60
}

// FallbackPitchVerdict computes a pitch verdict from the rubric tables and
// the normalized signals. Pure and deterministic: lookups are total, every
// branch has a defined default, and no randomness is involved.
func FallbackPitchVerdict(in PitchInput, sig PitchSignals, rubric *Rubric) PitchVerdict {
	sector := rubric.LookupSector(in.Sector)
	stage := rubric.LookupStage(in.Stage)
	chain := rubric.LookupChain(in.Chain)
	tokenomics := scoreTokenomics(sig)
	content := scoreContent(sig)

	overallScore := int(math.Round(
		float64(sector.Score)*pitchSectorWeight +
			float64(stage.Score)*pitchStageWeight +
			float64(chain.Score)*pitchChainWeight +
			float64(tokenomics.score)*pitchTokenomicsWeight +
			float64(content)*pitchContentWeight))

	var rating Rating
	switch {
	case overallScore >= pitchHighScoreThreshold && sig.HasSummary && sig.HasTokenomics:
		rating = RatingHigh
	case overallScore >= pitchNormalScoreThreshold && (sig.HasSummary || sig.HasTokenomics):
		rating = RatingNormal
	default:
		rating = RatingLow
	}

	var summary string
	switch {
	case sig.HasSummary && sig.HasTokenomics:
		summary = fmt.Sprintf(
			"%s is a %s project on %s blockchain at %s stage (Score: %d/100). %s. %s. The project has provided comprehensive information including tokenomics and detailed description.",
			in.Title, in.Sector, in.Chain, in.Stage, overallScore, sector.Label, stage.Label)
	case sig.HasSummary:
		summary = fmt.Sprintf(
			"%s is a %s project on %s at %s stage (Score: %d/100). %s. WARNING: Tokenomics are missing - this is a critical gap that prevents proper evaluation.",
			in.Title, in.Sector, in.Chain, in.Stage, overallScore, sector.Label)
	default:
		summary = fmt.Sprintf(
			"%s - %s project on %s at %s stage (Score: %d/100). CRITICAL: Missing essential information. Cannot perform proper due diligence without a detailed project description.",
			in.Title, in.Sector, in.Chain, in.Stage, overallScore)
	}

	strengths := []string{
		fmt.Sprintf("%s (Sector score: %d/100)", sector.Label, sector.Score),
		fmt.Sprintf("%s - %s blockchain", chain.Label, in.Chain),
		fmt.Sprintf("%s (Stage score: %d/100)", stage.Label, stage.Score),
	}
	if sig.HasTokenomics && tokenomics.score >= 35 {
		strengths = append(strengths, tokenomics.detail)
	}
	if sig.HasSummary && sig.SummaryLength > 200 {
		strengths = append(strengths,
			fmt.Sprintf("Comprehensive project documentation provided (%d chars)", sig.SummaryLength))
	}

	var weaknesses []string
	if !sig.HasSummary {
		weaknesses = append(weaknesses,
			"CRITICAL: No project description - cannot evaluate value proposition, team, or technology")
	} else if sig.SummaryLength < 100 {
		weaknesses = append(weaknesses,
			"Project description too brief - needs detailed explanation of technology and use case")
	}
	if !sig.HasTokenomics {
		weaknesses = append(weaknesses,
			"CRITICAL: Tokenomics undefined - cannot assess token value, distribution, or economics")
	} else if tokenomics.score < 25 {
		weaknesses = append(weaknesses, tokenomics.detail)
	}
	if stage.Score < 60 {
		weaknesses = append(weaknesses,
			"Early development stage - needs to demonstrate product-market fit")
	}
	if sector.Score < 60 {
		weaknesses = append(weaknesses,
			fmt.Sprintf("%s - needs strong differentiation", sector.Label))
	}

	competitionRisk := "requires clear differentiation strategy"
	if sector.Score >= 80 {
		competitionRisk = "has high competition from established players"
	}
	risks := []string{
		stage.Risk,
		fmt.Sprintf("Market competition: %s sector %s", in.Sector, competitionRisk),
		"Crypto market volatility and regulatory uncertainty",
	}
	if !sig.HasSummary {
		risks = append(risks,
			"CANNOT ASSESS: Without project details, unable to evaluate team, technology, or execution risks")
	}
	if !sig.HasTokenomics {
		risks = append(risks,
			"Token economics risk: No clarity on supply, distribution, vesting, or utility")
	}
	if chain.Score < 70 {
		risks = append(risks,
			fmt.Sprintf("Blockchain choice: %s has limited ecosystem support", in.Chain))
	}

	var recommendations []string
	if !sig.HasSummary {
		recommendations = append(recommendations,
			"IMMEDIATE ACTION: Provide detailed project description including team, technology, problem solved, and go-to-market strategy")
	} else if sig.SummaryLength < 200 {
		recommendations = append(recommendations,
			"Expand project description with technical details, team background, and competitive advantages")
	}
	if !sig.HasTokenomics {
		recommendations = append(recommendations,
			"IMMEDIATE ACTION: Define complete tokenomics - total supply, distribution, vesting schedule, TGE %, utility, and token value accrual")
	}
	if stage.Score < 60 {
		recommendations = append(recommendations,
			"Development: Build MVP and gather user feedback to validate product-market fit")
	}
	recommendations = append(recommendations,
		"Security: Complete professional smart contract audit from a reputable firm",
		"Community: Build engaged community through social media and regular updates")
	if sector.Score >= 70 {
		recommendations = append(recommendations,
			"Partnerships: Establish strategic partnerships within the ecosystem to drive adoption")
	}

	var confidence int
	switch {
	case sig.HasSummary && sig.HasTokenomics:
		confidence = minInt(85, 60+int(math.Round(float64(overallScore)*0.25)))
	case sig.HasSummary || sig.HasTokenomics:
		confidence = minInt(60, 40+int(math.Round(float64(overallScore)*0.20)))
	default:
		confidence = minInt(35, 20+int(math.Round(float64(overallScore)*0.15)))
	}

	return PitchVerdict{
		Summary:         summary,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Risks:           risks,
		Recommendations: recommendations,
		Rating:          rating,
		OverallScore:    overallScore,
		Confidence:      confidence,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
