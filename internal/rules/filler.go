package rules

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Filler findings surface only when total filler occurrences exceed this
// share of the word count. Normal prose contains some filler; only a
// statistically significant cluster is worth reporting.
const fillerShareMax = 0.02

type fillerEntry struct {
	ruleID      string
	category    string
	pattern     *regexp.Regexp
	words       int // Tokens the pattern consumes, for occurrence counting
	replacement string
}

var fillerCatalogue = []fillerEntry{
	{"FILLER_INTENSIFIER", "intensifier", regexp.MustCompile(`(?i)\b(very|really|extremely|incredibly|absolutely|totally|highly)\b`), 1, "delete it or pick a stronger base word"},
	{"FILLER_HEDGE", "hedge filler", regexp.MustCompile(`(?i)\b(basically|actually|literally|essentially|simply|just|quite|rather|somewhat)\b`), 1, "delete it"},
	{"FILLER_CIRCUMLOCUTION", "circumlocution", regexp.MustCompile(`(?i)\b(due to the fact that|in order to|at this point in time|in the event that|for the purpose of|a large number of|in spite of the fact that|with regard to)\b`), 4, `"due to the fact that" -> "because", "in order to" -> "to"`},
}

// CheckFiller matches the filler catalogue against the text and reports one
// issue per catalogue rule present, but only once the total number of
// filler occurrences exceeds 2% of the word count.
func CheckFiller(in model.AuditInput) []model.Issue {
	words := textutil.WordCount(in.Text)
	if words == 0 {
		return nil
	}

	counts := map[string]int{}
	examples := map[string]string{}
	total := 0

	for _, entry := range fillerCatalogue {
		matches := entry.pattern.FindAllString(in.Text, -1)
		if len(matches) == 0 {
			continue
		}
		counts[entry.ruleID] = len(matches)
		examples[entry.ruleID] = matches[0]
		total += len(matches)
	}

	if float64(total) <= fillerShareMax*float64(words) {
		return nil
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var issues []model.Issue
	for _, id := range ids {
		entry := fillerByID(id)
		issues = append(issues, model.Issue{
			RuleID:   id,
			Severity: model.SeverityLow,
			Title:    fmt.Sprintf("Wordiness: %s", entry.category),
			Description: fmt.Sprintf("%d %s occurrences in %d words; total filler is %d (%s of the text, over the 2%% limit).",
				counts[id], entry.category, words, total, ratioPct(total, words)),
			AffectedElement: examples[id],
			ExampleFix:      entry.replacement,
		})
	}
	return issues
}

func fillerByID(id string) fillerEntry {
	for _, e := range fillerCatalogue {
		if e.ruleID == id {
			return e
		}
	}
	return fillerEntry{}
}
