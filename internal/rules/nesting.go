package rules

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/avetrov/contentaudit/internal/model"
)

// Block-level elements that the HTML content model forbids inside <p>.
var blockInParagraph = map[string]bool{
	"figure": true, "div": true, "table": true, "ul": true, "ol": true,
	"blockquote": true, "section": true, "article": true, "aside": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"form": true, "pre": true,
}

// Structural-metric constants for the content ratio check.
const (
	contentRatioMin   = 0.3
	largeDocNodeCount = 1500
)

// CheckHTMLNesting validates the markup's content model: block elements
// nested in paragraphs, duplicate H1s, heading-level skips, and (when
// structural metrics are supplied) a low content-to-DOM ratio on large
// documents.
//
// The scan works on raw tokens rather than a parsed tree: the HTML5 tree
// builder silently auto-closes <p> before block elements, which would hide
// exactly the authoring error this rule exists to catch.
func CheckHTMLNesting(in model.AuditInput) []model.Issue {
	if strings.TrimSpace(in.HTML) == "" {
		return nil
	}

	var issues []model.Issue

	issues = append(issues, scanNesting(in.HTML)...)

	if s := in.Structural; s != nil && s.TotalNodes > largeDocNodeCount && s.ContentNodes > 0 {
		ratio := float64(s.ContentNodes) / float64(s.TotalNodes)
		if ratio < contentRatioMin {
			issues = append(issues, issue("HTML_CONTENT_RATIO", model.SeverityMedium,
				"Low content-to-DOM ratio",
				fmt.Sprintf("Only %d of %d DOM nodes carry main content (%s, minimum 30%% on documents over %d nodes).",
					s.ContentNodes, s.TotalNodes, ratioPct(s.ContentNodes, s.TotalNodes), largeDocNodeCount)))
		}
	}

	return issues
}

func scanNesting(markup string) []model.Issue {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))

	var issues []model.Issue
	seenNested := map[string]bool{}
	inParagraph := false
	h1Count := 0
	var levels []int
	skipReported := false

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			nameBytes, _ := tokenizer.TagName()
			name := string(nameBytes)

			if inParagraph && blockInParagraph[name] && !seenNested[name] {
				seenNested[name] = true
				issues = append(issues, model.Issue{
					RuleID:          "HTML_BLOCK_IN_P",
					Severity:        model.SeverityHigh,
					Title:           "Block element nested inside a paragraph",
					Description:     fmt.Sprintf("<%s> found inside <p>; the paragraph content model forbids block-level children.", name),
					AffectedElement: "<p>...<" + name + ">",
					ExampleFix:      fmt.Sprintf("Close the paragraph before the <%s> element.", name),
				})
			}

			if name == "p" && tt == html.StartTagToken {
				inParagraph = true
			}

			if lvl, ok := headingLevel(name); ok {
				if lvl == 1 {
					h1Count++
				}
				// A jump of more than one level deeper (h1 -> h3) breaks the
				// outline; returning to a shallower level closes a section
				// and is fine.
				if !skipReported && len(levels) > 0 && lvl > levels[len(levels)-1]+1 {
					skipReported = true
					prev := levels[len(levels)-1]
					issues = append(issues, model.Issue{
						RuleID:          "HTML_HEADING_SKIP",
						Severity:        model.SeverityMedium,
						Title:           "Heading level skipped",
						Description:     fmt.Sprintf("Heading sequence jumps from h%d to h%d; intermediate levels are missing.", prev, lvl),
						AffectedElement: fmt.Sprintf("h%d -> h%d", prev, lvl),
						ExampleFix:      fmt.Sprintf("Use an h%d between them or promote the deeper heading.", prev+1),
					})
				}
				levels = append(levels, lvl)
			}

		case html.EndTagToken:
			nameBytes, _ := tokenizer.TagName()
			if string(nameBytes) == "p" {
				inParagraph = false
			}
		}
	}

	if h1Count > 1 {
		issues = append(issues, issue("HTML_MULTIPLE_H1", model.SeverityHigh,
			"More than one top-level heading",
			fmt.Sprintf("Found %d <h1> elements; a document should have exactly one.", h1Count)))
	}

	return issues
}

func headingLevel(name string) (int, bool) {
	if len(name) != 2 || name[0] != 'h' {
		return 0, false
	}
	lvl, err := strconv.Atoi(name[1:])
	if err != nil || lvl < 1 || lvl > 6 {
		return 0, false
	}
	return lvl, true
}
