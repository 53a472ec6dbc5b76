package model

import "time"

// Report is the combined output of one audit: rule findings plus the
// extracted and verified fact claims. No aggregate score is computed;
// downstream consumers weigh findings however they choose.
type Report struct {
	// Subject identifies what was audited: a URL, a file path, or "stdin".
	Subject string `json:"subject" yaml:"subject"`

	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// WordCount of the audited text, for context in rendered output.
	WordCount int `json:"word_count" yaml:"word_count"`

	Issues []Issue     `json:"issues" yaml:"issues"`
	Claims []FactClaim `json:"claims,omitempty" yaml:"claims,omitempty"`
}

// CountBySeverity tallies issues per severity level.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}

// VerifiedClaims returns how many claims reached a terminal verified state.
func (r *Report) VerifiedClaims() int {
	n := 0
	for _, c := range r.Claims {
		if c.VerificationStatus == StatusVerified {
			n++
		}
	}
	return n
}
