package domain

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// foldCaser is a package-level Unicode case folder for performance.
// This avoids creating a new caser for each lookup.
var foldCaser = cases.Fold()

// maxRubricEditDistance is the largest Levenshtein distance at which a
// free-text name is still treated as a near-miss spelling of a rubric key.
// Anything further away falls through to the default entry.
const maxRubricEditDistance = 2

// RubricEntry is one row of a scoring table: a sub-score in [0,100] and the
// human-readable label quoted in findings.
type RubricEntry struct {
	Score int    `yaml:"score" validate:"min=0,max=100"`
	Label string `yaml:"label" validate:"required"`
}

// StageEntry extends RubricEntry with the execution-risk wording attached
// to a development stage.
type StageEntry struct {
	Score int    `yaml:"score" validate:"min=0,max=100"`
	Label string `yaml:"label" validate:"required"`
	Risk  string `yaml:"risk" validate:"required"`
}

// Rubric holds the lookup tables used by the pitch evaluator. Lookups are
// total: case is folded, near-miss spellings are resolved by edit distance,
// and anything unrecognized lands on the default key, never on an
// unintended row.
type Rubric struct {
	Sectors map[string]RubricEntry `yaml:"sectors"`
	Stages  map[string]StageEntry  `yaml:"stages"`
	Chains  map[string]RubricEntry `yaml:"chains"`
}

// Default keys used when a submitted name matches no table row.
const (
	DefaultSectorKey = "Other"
	DefaultStageKey  = "Idea"
	DefaultChainKey  = "Other"
)

// restrictedJurisdictions is the fixed set of high-risk country codes.
// A KYB submission registered in any of these is flagged for enhanced due
// diligence regardless of completeness.
var restrictedJurisdictions = map[string]struct{}{
	"IR": {}, "KP": {}, "SY": {}, "CU": {}, "VE": {}, "AF": {},
}

// IsRestrictedJurisdiction reports whether the ISO country code belongs to
// the restricted set. The comparison is case-insensitive.
func IsRestrictedJurisdiction(code string) bool {
	_, ok := restrictedJurisdictions[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// DefaultRubric returns the built-in scoring tables.
// Scores reflect a market assessment: DeFi, AI and Infrastructure are
// premium sectors; Ethereum carries the strongest ecosystem; late stages
// score higher than early ones.
func DefaultRubric() *Rubric {
	return &Rubric{
		Sectors: map[string]RubricEntry{
			"DeFi":           {Score: 85, Label: "High-value sector with strong product-market fit"},
			"Infrastructure": {Score: 80, Label: "Critical infrastructure - long-term value"},
			"AI":             {Score: 90, Label: "Emerging high-growth sector"},
			"Gaming":         {Score: 70, Label: "Established market with engagement challenges"},
			"NFT":            {Score: 55, Label: "Saturated market - needs strong differentiation"},
			"Social":         {Score: 65, Label: "Network effects critical for success"},
			"Privacy":        {Score: 70, Label: "Niche market with regulatory considerations"},
			"Other":          {Score: 45, Label: "Unclear market positioning"},
		},
		Stages: map[string]StageEntry{
			"Idea":    {Score: 25, Label: "Concept stage - unproven", Risk: "VERY HIGH execution risk - no validation"},
			"MVP":     {Score: 45, Label: "Early prototype - needs validation", Risk: "HIGH risk - requires significant development"},
			"Beta":    {Score: 65, Label: "Testing phase - near launch", Risk: "MEDIUM risk - technical validation in progress"},
			"Live":    {Score: 80, Label: "Operational product - proven execution", Risk: "MODERATE risk - product live, execution demonstrated"},
			"Scaling": {Score: 90, Label: "Growing user base - strong traction", Risk: "LOW risk - validated model with growth momentum"},
		},
		Chains: map[string]RubricEntry{
			"Ethereum":  {Score: 90, Label: "Most established ecosystem - highest security"},
			"Solana":    {Score: 80, Label: "High-performance - strong developer community"},
			"Arbitrum":  {Score: 85, Label: "Layer 2 scaling - Ethereum security"},
			"Optimism":  {Score: 80, Label: "Layer 2 - growing ecosystem"},
			"Polygon":   {Score: 75, Label: "EVM compatible - good scaling"},
			"Base":      {Score: 75, Label: "Coinbase ecosystem - emerging"},
			"BSC":       {Score: 65, Label: "High activity - centralization concerns"},
			"Avalanche": {Score: 70, Label: "Fast performance - moderate adoption"},
			"Other":     {Score: 50, Label: "Limited ecosystem support"},
		},
	}
}

// Validate checks that every table carries its default key so lookups stay
// total after a YAML override.
func (r *Rubric) Validate() error {
	if _, ok := r.Sectors[DefaultSectorKey]; !ok {
		return fmt.Errorf("sector table missing default entry %q", DefaultSectorKey)
	}
	if _, ok := r.Stages[DefaultStageKey]; !ok {
		return fmt.Errorf("stage table missing default entry %q", DefaultStageKey)
	}
	if _, ok := r.Chains[DefaultChainKey]; !ok {
		return fmt.Errorf("chain table missing default entry %q", DefaultChainKey)
	}
	return nil
}

// LookupSector resolves a free-text sector name to a table row.
func (r *Rubric) LookupSector(name string) RubricEntry {
	if key, ok := matchKey(name, keysOf(r.Sectors)); ok {
		return r.Sectors[key]
	}
	return r.Sectors[DefaultSectorKey]
}

// LookupStage resolves a free-text stage name to a table row.
func (r *Rubric) LookupStage(name string) StageEntry {
	if key, ok := matchKey(name, keysOf(r.Stages)); ok {
		return r.Stages[key]
	}
	return r.Stages[DefaultStageKey]
}

// LookupChain resolves a free-text chain name to a table row.
func (r *Rubric) LookupChain(name string) RubricEntry {
	if key, ok := matchKey(name, keysOf(r.Chains)); ok {
		return r.Chains[key]
	}
	return r.Chains[DefaultChainKey]
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// matchKey finds the table key for a submitted name. Comparison folds case
// first; if no key matches exactly, the closest key within
// maxRubricEditDistance wins. Ties go to the smaller distance, so a new
// chain name two typos away from two keys at equal distance stays
// unresolved and falls to the default.
func matchKey(name string, keys []string) (string, bool) {
	folded := foldCaser.String(strings.TrimSpace(name))
	if folded == "" {
		return "", false
	}

	for _, k := range keys {
		if foldCaser.String(k) == folded {
			return k, true
		}
	}

	best := ""
	bestDist := maxRubricEditDistance + 1
	ambiguous := false
	for _, k := range keys {
		d := levenshtein.ComputeDistance(folded, foldCaser.String(k))
		switch {
		case d < bestDist:
			best, bestDist, ambiguous = k, d, false
		case d == bestDist:
			ambiguous = true
		}
	}
	if bestDist > maxRubricEditDistance || ambiguous {
		return "", false
	}
	return best, true
}
