package rules

import (
	"github.com/avetrov/contentaudit/internal/model"
)

// findRule returns the issues matching a rule id.
func findRule(issues []model.Issue, id string) []model.Issue {
	var out []model.Issue
	for _, is := range issues {
		if is.RuleID == id {
			out = append(out, is)
		}
	}
	return out
}

func hasRule(issues []model.Issue, id string) bool {
	return len(findRule(issues, id)) > 0
}
