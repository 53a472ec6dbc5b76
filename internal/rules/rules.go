// Package rules implements the deterministic content validators. Every
// validator is a pure function over model.AuditInput: no I/O, no shared
// mutable state, and empty or too-short input yields no findings.
//
// Most rules apply threshold suppression: pattern matches are counted and a
// finding is emitted only once the count (or its ratio to sentence/word
// count) exceeds a fixed per-rule constant. Single occurrences are expected
// false positives and must stay silent.
package rules

import (
	"fmt"

	"github.com/avetrov/contentaudit/internal/model"
)

// issue is a small constructor shorthand used across the rule files.
func issue(id string, sev model.Severity, title, desc string) model.Issue {
	return model.Issue{
		RuleID:      id,
		Severity:    sev,
		Title:       title,
		Description: desc,
	}
}

// ratioPct formats a count/total ratio as a percentage for descriptions.
func ratioPct(count, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(count)/float64(total)*100)
}
