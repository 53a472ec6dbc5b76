package rules

import (
	"fmt"
	"regexp"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Readability thresholds. Sentence length is an average over the whole
// sample; paragraph length counts oversized paragraphs and stays silent
// until more than one is found.
const (
	readMinSentences     = 5
	avgSentenceWordsMax  = 25.0
	longParagraphWords   = 150
	longParagraphCountAt = 1
)

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// CheckReadability measures average sentence length and flags runs of
// oversized paragraphs. Paragraphs are blank-line separated blocks of the
// plain text.
func CheckReadability(in model.AuditInput) []model.Issue {
	var issues []model.Issue

	sentences := textutil.SplitSentences(in.Text)
	if len(sentences) >= readMinSentences {
		words := textutil.WordCount(in.Text)
		avg := float64(words) / float64(len(sentences))
		if avg > avgSentenceWordsMax {
			issues = append(issues, issue("READ_SENTENCE_LENGTH", model.SeverityMedium,
				"Sentences run too long",
				fmt.Sprintf("Average sentence length is %.1f words over %d sentences (limit %.0f).",
					avg, len(sentences), avgSentenceWordsMax)))
		}
	}

	long := 0
	first := ""
	for _, para := range paragraphSplitRe.Split(in.Text, -1) {
		if textutil.WordCount(para) > longParagraphWords {
			long++
			if first == "" {
				first = para
			}
		}
	}
	if long > longParagraphCountAt {
		issues = append(issues, model.Issue{
			RuleID:          "READ_PARAGRAPH_LENGTH",
			Severity:        model.SeverityLow,
			Title:           "Oversized paragraphs",
			Description:     fmt.Sprintf("%d paragraphs exceed %d words; split them around one idea each.", long, longParagraphWords),
			AffectedElement: model.Excerpt(first),
		})
	}

	return issues
}
