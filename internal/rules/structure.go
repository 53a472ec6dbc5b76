package rules

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Section balance compares the word counts of h2-delimited sections. The
// check needs several substantial sections before a skew is meaningful.
const (
	balanceMinSections  = 3
	balanceMinWords     = 20
	balanceSkewRatioMax = 4.0
)

// CheckContentStructure flags a page whose h2 sections are badly
// unbalanced: the largest section holding more than four times the words
// of the smallest. Content before the first h2 is not a section.
func CheckContentStructure(in model.AuditInput) []model.Issue {
	if strings.TrimSpace(in.HTML) == "" {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(in.HTML))
	if err != nil {
		return nil
	}

	sections := sectionTexts(doc)
	if len(sections) < balanceMinSections {
		return nil
	}

	minWords, maxWords := -1, 0
	minHeading, maxHeading := "", ""
	for _, sec := range sections {
		words := textutil.WordCount(sec.text)
		if words < balanceMinWords {
			return nil
		}
		if minWords < 0 || words < minWords {
			minWords, minHeading = words, sec.heading
		}
		if words > maxWords {
			maxWords, maxHeading = words, sec.heading
		}
	}

	if float64(maxWords) <= balanceSkewRatioMax*float64(minWords) {
		return nil
	}

	return []model.Issue{issue("STRUCT_SECTION_BALANCE", model.SeverityLow,
		"Unbalanced sections",
		fmt.Sprintf("Section %q holds %d words against %d in %q (limit %.0fx); split the large section or expand the thin one.",
			maxHeading, maxWords, minWords, minHeading, balanceSkewRatioMax))}
}

type section struct {
	heading string
	text    string
}

// sectionTexts walks the document in order, starting a new section at
// every h2 and accumulating the text that follows it.
func sectionTexts(doc *html.Node) []section {
	var sections []section

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "h2":
				sections = append(sections, section{heading: strings.TrimSpace(nodeText(n))})
				return
			}
		}
		if n.Type == html.TextNode && len(sections) > 0 {
			sections[len(sections)-1].text += n.Data + " "
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return sections
}
