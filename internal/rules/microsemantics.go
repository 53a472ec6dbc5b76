package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Micro-semantics thresholds, each a ratio against total sentence count.
// Ratios are only evaluated once the sample reaches microMinSentences.
const (
	microMinSentences = 5
	modalMixRatioMax  = 0.30
	hedgedRatioMax    = 0.40
	vagueRatioMax     = 0.25
	weakOpenRatioMax  = 0.20
)

var (
	modalVerbRe      = regexp.MustCompile(`(?i)\b(can|could|may|might|should|would|shall|must)\b`)
	indicativeVerbRe = regexp.MustCompile(`(?i)\b(is|are|was|were|has|have|does|do|provides?|delivers?|runs?|works?|increases?|reduces?)\b`)
	vaguePredicateRe = regexp.MustCompile(`(?i)\b(do|does|did|make|makes|made|get|gets|got|have|has|had|take|takes|took)\b`)
	weakOpenerRe     = regexp.MustCompile(`(?i)^(there (is|are|was|were)|it is|it was|it's)\b`)
)

// CheckMicroSemantics flags sentence-level weaknesses: mixing indicative
// and modal verbs, overly hedged sentences, vague predicates, and weak
// sentence openers.
func CheckMicroSemantics(in model.AuditInput) []model.Issue {
	sentences := textutil.SplitSentences(in.Text)
	total := len(sentences)
	if total < microMinSentences {
		return nil
	}

	mixed := 0
	hedged := 0
	vague := 0
	weakOpen := 0
	firstMixed, firstHedged, firstVague, firstWeak := "", "", "", ""

	for _, s := range sentences {
		hasModal := modalVerbRe.MatchString(s)
		hasIndicative := indicativeVerbRe.MatchString(s)

		if hasModal && hasIndicative {
			mixed++
			if firstMixed == "" {
				firstMixed = s
			}
		}
		if hasModal && !hasIndicative {
			hedged++
			if firstHedged == "" {
				firstHedged = s
			}
		}
		if vaguePredicateRe.MatchString(s) {
			vague++
			if firstVague == "" {
				firstVague = s
			}
		}
		if weakOpenerRe.MatchString(strings.TrimSpace(s)) {
			weakOpen++
			if firstWeak == "" {
				firstWeak = s
			}
		}
	}

	var issues []model.Issue

	if exceeds(mixed, total, modalMixRatioMax) {
		issues = append(issues, model.Issue{
			RuleID:          "MICRO_MODAL_MIX",
			Severity:        model.SeverityLow,
			Title:           "Indicative and modal verbs mixed",
			Description:     fmt.Sprintf("%d of %d sentences (%s) mix indicative and modal verbs (limit 30%%).", mixed, total, ratioPct(mixed, total)),
			AffectedElement: model.Excerpt(firstMixed),
			ExampleFix:      `"the tool is fast and could help" -> "the tool is fast and helps"`,
		})
	}
	if exceeds(hedged, total, hedgedRatioMax) {
		issues = append(issues, model.Issue{
			RuleID:          "MICRO_HEDGED",
			Severity:        model.SeverityLow,
			Title:           "Excessively hedged sentences",
			Description:     fmt.Sprintf("%d of %d sentences (%s) rely on modal verbs alone (limit 40%%).", hedged, total, ratioPct(hedged, total)),
			AffectedElement: model.Excerpt(firstHedged),
		})
	}
	if exceeds(vague, total, vagueRatioMax) {
		issues = append(issues, model.Issue{
			RuleID:          "MICRO_VAGUE_PREDICATE",
			Severity:        model.SeverityLow,
			Title:           "Vague predicates",
			Description:     fmt.Sprintf("%d of %d sentences (%s) lean on do/make/get/have verbs (limit 25%%).", vague, total, ratioPct(vague, total)),
			AffectedElement: model.Excerpt(firstVague),
			ExampleFix:      `"the report makes an analysis" -> "the report analyzes"`,
		})
	}
	if exceeds(weakOpen, total, weakOpenRatioMax) {
		issues = append(issues, model.Issue{
			RuleID:          "MICRO_WEAK_OPENER",
			Severity:        model.SeverityLow,
			Title:           "Weak sentence openers",
			Description:     fmt.Sprintf("%d of %d sentences (%s) open with \"There is\" or \"It is\" (limit 20%%).", weakOpen, total, ratioPct(weakOpen, total)),
			AffectedElement: model.Excerpt(firstWeak),
			ExampleFix:      `"There are three factors that matter" -> "Three factors matter"`,
		})
	}

	return issues
}

func exceeds(count, total int, ratio float64) bool {
	return float64(count) > ratio*float64(total)
}
