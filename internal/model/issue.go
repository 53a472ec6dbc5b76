package model

// Severity ranks how much a finding should concern the caller.
// The core never converts severities to numeric weights; ordering is
// provided only so callers can sort findings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the sort order of a severity (critical first).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Issue is the common output contract of every rule validator.
// Issues are immutable value objects with no identity beyond content;
// repeated runs over the same input produce equal issues.
type Issue struct {
	RuleID          string   `json:"rule_id" yaml:"rule_id"`                                         // Stable identifier, e.g. "QUAL_TEMPORAL"
	Severity        Severity `json:"severity" yaml:"severity"`                                       // critical, high, medium, low
	Title           string   `json:"title" yaml:"title"`                                             // Short human title
	Description     string   `json:"description" yaml:"description"`                                 // Embeds the counts/values that triggered it
	AffectedElement string   `json:"affected_element,omitempty" yaml:"affected_element,omitempty"`   // Verbatim excerpt, truncated
	ExampleFix      string   `json:"example_fix,omitempty" yaml:"example_fix,omitempty"`             // Concrete before -> after hint
}

// ExcerptLimit is the maximum length of AffectedElement excerpts.
const ExcerptLimit = 120

// Excerpt truncates s for use as an AffectedElement value.
func Excerpt(s string) string {
	if len(s) <= ExcerptLimit {
		return s
	}
	return s[:ExcerptLimit] + "..."
}
