package model

// FactClaim represents a factual assertion extracted from content
// for verification against an external source.
type FactClaim struct {
	ID                  string               `json:"id" yaml:"id"`
	Text                string               `json:"text" yaml:"text"`             // Verbatim sentence
	ClaimType           ClaimType            `json:"claim_type" yaml:"claim_type"` // Which extraction pattern matched
	Confidence          float64              `json:"confidence" yaml:"confidence"` // 0-1 heuristic, not a probability
	VerificationStatus  VerificationStatus   `json:"verification_status" yaml:"verification_status"`
	VerificationSources []VerificationSource `json:"verification_sources,omitempty" yaml:"verification_sources,omitempty"`
	Suggestion          string               `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// ClaimType categorizes the nature of an extracted claim.
type ClaimType string

const (
	ClaimTypeStatistic   ClaimType = "statistic"   // Percentages, large numbers, magnitude words
	ClaimTypeDate        ClaimType = "date"        // Explicit years or full dates
	ClaimTypeAttribution ClaimType = "attribution" // "according to", "study by"
	ClaimTypeComparison  ClaimType = "comparison"  // Superlative or ratio language
	ClaimTypeGeneral     ClaimType = "general"     // Unclassified factual assertion
)

// VerificationStatus is the claim verification state machine.
// A claim starts unverified and moves to exactly one terminal state;
// verifier failures never propagate, they map to unable_to_verify.
type VerificationStatus string

const (
	StatusUnverified     VerificationStatus = "unverified"
	StatusVerified       VerificationStatus = "verified"
	StatusDisputed       VerificationStatus = "disputed"
	StatusOutdated       VerificationStatus = "outdated"
	StatusUnableToVerify VerificationStatus = "unable_to_verify"
)

// VerificationSource is a citation returned by a verifier.
type VerificationSource struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}
