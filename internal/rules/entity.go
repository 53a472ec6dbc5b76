package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Coverage floors for the supplied attribute and predicate lists.
const (
	attributeCoverageMin = 0.5
	predicateCoverageMin = 0.3
)

// When structural analysis is present, the first entity mention must sit
// within the leading share of the main content.
const entityLeadShare = 0.05

var (
	generalCueRe  = regexp.MustCompile(`(?i)\b(is an?|overview|in general|what is|refers to|in short|put simply)\b`)
	specificCueRe = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(%|percent|ms|seconds?|minutes?|hours?|days?|users?|gb|mb|\$|€|£)|\$\d|\b\d{1,3}(,\d{3})+\b`)
)

// CheckEntityPlacement verifies that the central entity leads the content
// and that the supplied attribute/predicate lists are sufficiently covered.
// When structural mention data is available it supersedes the sentence-based
// positioning fallback.
func CheckEntityPlacement(in model.AuditInput) []model.Issue {
	entity := strings.TrimSpace(in.CentralEntity)
	if entity == "" || strings.TrimSpace(in.Text) == "" {
		return nil
	}

	var issues []model.Issue

	if hasMentionData(in.Structural) {
		issues = append(issues, checkStructuralPosition(entity, in.Structural)...)
	} else {
		issues = append(issues, checkLeadSentences(entity, in.Text)...)
	}

	lower := strings.ToLower(in.Text)

	if len(in.Attributes) > 0 {
		covered, missing := coverage(lower, in.Attributes)
		ratio := float64(covered) / float64(len(in.Attributes))
		if ratio < attributeCoverageMin {
			issues = append(issues, model.Issue{
				RuleID:   "ENTITY_ATTRIBUTE_COVERAGE",
				Severity: model.SeverityMedium,
				Title:    "Low attribute coverage for the central entity",
				Description: fmt.Sprintf("Only %d of %d expected attributes are mentioned (%s, minimum 50%%). Missing: %s.",
					covered, len(in.Attributes), ratioPct(covered, len(in.Attributes)), strings.Join(missing, ", ")),
				ExampleFix: fmt.Sprintf("Add a section covering %q.", missing[0]),
			})
		}
	}

	if len(in.Predicates) > 0 {
		covered, missing := coverage(lower, in.Predicates)
		ratio := float64(covered) / float64(len(in.Predicates))
		if ratio < predicateCoverageMin {
			issues = append(issues, model.Issue{
				RuleID:   "ENTITY_PREDICATE_COVERAGE",
				Severity: model.SeverityLow,
				Title:    "Low predicate coverage for the central entity",
				Description: fmt.Sprintf("Only %d of %d expected predicates appear (%s, minimum 30%%). Missing: %s.",
					covered, len(in.Predicates), ratioPct(covered, len(in.Predicates)), strings.Join(missing, ", ")),
				ExampleFix: fmt.Sprintf("Mention how %s %s.", entity, missing[0]),
			})
		}
	}

	if !generalCueRe.MatchString(in.Text) {
		issues = append(issues, issue("ENTITY_GENERAL_CUE", model.SeverityLow,
			"Missing general overview statement",
			fmt.Sprintf("The content never introduces %s with an overview statement (\"X is a ...\").", entity)))
	}
	if !specificCueRe.MatchString(in.Text) {
		issues = append(issues, issue("ENTITY_SPECIFIC_CUE", model.SeverityLow,
			"Missing specific measurable detail",
			fmt.Sprintf("The content contains no measurable detail (number with a unit) about %s.", entity)))
	}

	return issues
}

func hasMentionData(s *model.StructuralInfo) bool {
	return s != nil && len(s.EntityMentions) > 0 && s.MainContentBytes > 0
}

// checkStructuralPosition is the richer positioning check: first-mention
// offset within the lead share of main content, and H1 membership.
func checkStructuralPosition(entity string, s *model.StructuralInfo) []model.Issue {
	var issues []model.Issue

	firstOffset := s.EntityMentions[0].Offset
	inH1 := false
	for _, m := range s.EntityMentions {
		if m.Offset < firstOffset {
			firstOffset = m.Offset
		}
		if m.InH1 {
			inH1 = true
		}
	}

	limit := int(float64(s.MainContentBytes) * entityLeadShare)
	if firstOffset > limit {
		issues = append(issues, issue("ENTITY_POSITION", model.SeverityHigh,
			"Central entity appears too late",
			fmt.Sprintf("First mention of %q is at offset %d, beyond the first 5%% of main content (%d bytes).",
				entity, firstOffset, limit)))
	}
	if !inH1 {
		issues = append(issues, issue("ENTITY_H1", model.SeverityHigh,
			"Central entity missing from H1",
			fmt.Sprintf("No mention of %q sits inside the page H1.", entity)))
	}

	return issues
}

// checkLeadSentences is the text-only fallback: the entity must appear in
// the first two sentences, and ideally in the very first.
func checkLeadSentences(entity, text string) []model.Issue {
	sentences := textutil.SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	needle := strings.ToLower(entity)
	lead := 2
	if len(sentences) < lead {
		lead = len(sentences)
	}

	inLead := false
	for _, s := range sentences[:lead] {
		if strings.Contains(strings.ToLower(s), needle) {
			inLead = true
			break
		}
	}
	if !inLead {
		return []model.Issue{{
			RuleID:          "ENTITY_LEAD",
			Severity:        model.SeverityHigh,
			Title:           "Central entity missing from the lead",
			Description:     fmt.Sprintf("%q does not appear in the first two sentences.", entity),
			AffectedElement: model.Excerpt(sentences[0]),
			ExampleFix:      fmt.Sprintf("Open with a sentence that names %s directly.", entity),
		}}
	}

	if !strings.Contains(strings.ToLower(sentences[0]), needle) {
		return []model.Issue{{
			RuleID:          "ENTITY_FIRST_SENTENCE",
			Severity:        model.SeverityMedium,
			Title:           "Central entity not in the first sentence",
			Description:     fmt.Sprintf("%q appears in the lead but not in the opening sentence.", entity),
			AffectedElement: model.Excerpt(sentences[0]),
		}}
	}

	return nil
}

// coverage counts how many terms appear in the lowercased content, matching
// on the terms' significant tokens so that stop words do not count as hits.
func coverage(lowerContent string, terms []string) (covered int, missing []string) {
	for _, term := range terms {
		tokens := textutil.Tokenize(term)
		hit := false
		for _, tok := range tokens {
			if isStopword("en", tok) {
				continue
			}
			if strings.Contains(lowerContent, tok) {
				hit = true
				break
			}
		}
		if hit {
			covered++
		} else {
			missing = append(missing, term)
		}
	}
	return covered, missing
}
