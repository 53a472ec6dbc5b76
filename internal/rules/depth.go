package rules

import (
	"fmt"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Vocabulary diversity is a type-token ratio over the whole text. Short
// samples fluctuate wildly, so the check needs a minimum token count.
const (
	depthMinTokens    = 100
	typeTokenRatioMin = 0.40
)

// CheckSemanticDepth flags repetitive vocabulary: a distinct-to-total
// token ratio below 40% once the sample reaches 100 words.
func CheckSemanticDepth(in model.AuditInput) []model.Issue {
	tokens := textutil.Tokenize(in.Text)
	total := len(tokens)
	if total < depthMinTokens {
		return nil
	}

	distinct := make(map[string]bool, total)
	for _, tok := range tokens {
		distinct[tok] = true
	}

	if float64(len(distinct)) >= typeTokenRatioMin*float64(total) {
		return nil
	}

	return []model.Issue{issue("DEPTH_VOCABULARY", model.SeverityMedium,
		"Low vocabulary diversity",
		fmt.Sprintf("%d distinct words across %d total (%s, minimum 40%%); vary word choice or cut repetition.",
			len(distinct), total, ratioPct(len(distinct), total)))}
}
