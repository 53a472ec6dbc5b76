package rules

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Internal-linking thresholds.
const (
	anchorWordsMin       = 2
	anchorWordsMax       = 7
	anchorContextMin     = 5    // Words of surrounding context in the paragraph
	minInternalLinks     = 3    // On content over minLinkableWords
	minLinkableWords     = 300  //
	wordsPerLinkMin      = 100  // Denser than 1/100 words is too many
	wordsPerLinkMax      = 200  // Sparser than 1/200 words is too few
	maxAnchorDestRepeats = 2    // Same anchor->destination pair
	tocWordThreshold     = 2000 // Long content needs jump navigation
	chromeLinkShareMax   = 0.5  // Links outside main content
)

var genericAnchors = map[string]bool{
	"click here": true, "here": true, "read more": true, "learn more": true,
	"more": true, "this": true, "link": true, "this article": true,
	"check it out": true, "see more": true,
}

// pageLink is one extracted anchor with its placement context.
type pageLink struct {
	text         string
	href         string
	internal     bool
	inMain       bool
	inChrome     bool // nav, header, footer, aside
	paraText     string
	paraIndex    int
	sectionFirst bool // Paragraph directly follows a heading
}

type linkScan struct {
	links      []pageLink
	paraCount  int
	hasMain    bool
	headingIDs int
	tocSignal  bool
	words      int
}

// CheckInternalLinking audits anchor-text quality, link placement, density,
// context, repetition, and jump-navigation presence over the page markup.
func CheckInternalLinking(in model.AuditInput) []model.Issue {
	if strings.TrimSpace(in.HTML) == "" {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(in.HTML))
	if err != nil {
		return nil
	}

	scan := collectLinks(doc)

	var issues []model.Issue
	issues = append(issues, checkAnchorText(scan)...)
	issues = append(issues, checkPlacement(scan)...)
	issues = append(issues, checkDensity(scan)...)
	issues = append(issues, checkRepetition(scan)...)
	issues = append(issues, checkNavigation(scan)...)
	return issues
}

func checkAnchorText(scan *linkScan) []model.Issue {
	var issues []model.Issue

	generic := 0
	badLength := 0
	thinContext := 0
	firstGeneric, firstBadLength, firstThin := "", "", ""

	for _, l := range scan.links {
		text := strings.ToLower(strings.TrimSpace(l.text))
		if text == "" {
			continue
		}
		if genericAnchors[text] {
			generic++
			if firstGeneric == "" {
				firstGeneric = l.text
			}
		}
		words := textutil.WordCount(l.text)
		if words < anchorWordsMin || words > anchorWordsMax {
			badLength++
			if firstBadLength == "" {
				firstBadLength = l.text
			}
		}
		if l.paraText != "" {
			context := textutil.WordCount(l.paraText) - words
			if context < anchorContextMin {
				thinContext++
				if firstThin == "" {
					firstThin = l.text
				}
			}
		}
	}

	if generic > 0 {
		issues = append(issues, model.Issue{
			RuleID:          "LINK_GENERIC_ANCHOR",
			Severity:        model.SeverityMedium,
			Title:           "Generic anchor text",
			Description:     fmt.Sprintf("%d links use generic anchor text that describes nothing about the target.", generic),
			AffectedElement: model.Excerpt(firstGeneric),
			ExampleFix:      `"click here" -> "our internal linking checklist"`,
		})
	}
	if badLength > 0 {
		issues = append(issues, model.Issue{
			RuleID:          "LINK_ANCHOR_LENGTH",
			Severity:        model.SeverityLow,
			Title:           "Anchor text outside the 2-7 word range",
			Description:     fmt.Sprintf("%d links have anchor text shorter than %d or longer than %d words.", badLength, anchorWordsMin, anchorWordsMax),
			AffectedElement: model.Excerpt(firstBadLength),
		})
	}
	if thinContext > 0 {
		issues = append(issues, model.Issue{
			RuleID:          "LINK_CONTEXT",
			Severity:        model.SeverityMedium,
			Title:           "Links without surrounding context",
			Description:     fmt.Sprintf("%d links have fewer than %d words of surrounding context in their paragraph.", thinContext, anchorContextMin),
			AffectedElement: model.Excerpt(firstThin),
			ExampleFix:      "Embed the link in a full sentence that explains why the target is worth visiting.",
		})
	}

	// Identical anchor text pointing at different destinations.
	byAnchor := map[string]map[string]bool{}
	for _, l := range scan.links {
		text := strings.ToLower(strings.TrimSpace(l.text))
		if text == "" {
			continue
		}
		if byAnchor[text] == nil {
			byAnchor[text] = map[string]bool{}
		}
		byAnchor[text][l.href] = true
	}
	ambiguous := 0
	firstAmbiguous := ""
	for text, dests := range byAnchor {
		if len(dests) > 1 {
			ambiguous++
			if firstAmbiguous == "" {
				firstAmbiguous = text
			}
		}
	}
	if ambiguous > 0 {
		issues = append(issues, model.Issue{
			RuleID:          "LINK_AMBIGUOUS_ANCHOR",
			Severity:        model.SeverityMedium,
			Title:           "Same anchor text, different destinations",
			Description:     fmt.Sprintf("%d anchor texts point at more than one URL.", ambiguous),
			AffectedElement: model.Excerpt(firstAmbiguous),
		})
	}

	return issues
}

func checkPlacement(scan *linkScan) []model.Issue {
	var issues []model.Issue

	if scan.hasMain && len(scan.links) > 0 {
		outside := 0
		for _, l := range scan.links {
			if !l.inMain {
				outside++
			}
		}
		if float64(outside)/float64(len(scan.links)) > chromeLinkShareMax {
			issues = append(issues, issue("LINK_PLACEMENT", model.SeverityMedium,
				"Links concentrated outside main content",
				fmt.Sprintf("%d of %d links (%s) sit outside the main content region.",
					outside, len(scan.links), ratioPct(outside, len(scan.links)))))
		}
	}

	shortParas := 0
	firstShort := ""
	firstSentence := 0
	for _, l := range scan.links {
		if l.inChrome || l.paraText == "" {
			continue
		}
		sentences := textutil.SplitSentences(l.paraText)
		if len(sentences) < 2 {
			shortParas++
			if firstShort == "" {
				firstShort = l.paraText
			}
		}
		if len(sentences) > 0 && strings.Contains(sentences[0], strings.TrimSpace(l.text)) {
			if l.paraIndex == 0 || l.sectionFirst {
				firstSentence++
			}
		}
	}
	if shortParas > 0 {
		issues = append(issues, model.Issue{
			RuleID:          "LINK_PARAGRAPH_SENTENCES",
			Severity:        model.SeverityLow,
			Title:           "Linked paragraphs too short",
			Description:     fmt.Sprintf("%d paragraphs containing a link have fewer than 2 sentences.", shortParas),
			AffectedElement: model.Excerpt(firstShort),
		})
	}
	if firstSentence > 0 {
		issues = append(issues, issue("LINK_FIRST_SENTENCE", model.SeverityLow,
			"Links in opening sentences",
			fmt.Sprintf("%d links appear in the first sentence of the document or of a section; let the reader settle before sending them away.", firstSentence)))
	}

	return issues
}

func checkDensity(scan *linkScan) []model.Issue {
	if scan.words <= minLinkableWords {
		return nil
	}

	internal := 0
	for _, l := range scan.links {
		if l.internal && !l.inChrome {
			internal++
		}
	}

	var issues []model.Issue

	if internal < minInternalLinks {
		issues = append(issues, issue("LINK_COUNT", model.SeverityMedium,
			"Too few internal links",
			fmt.Sprintf("Only %d internal links on %d words of content (minimum %d over %d words).",
				internal, scan.words, minInternalLinks, minLinkableWords)))
		return issues
	}

	wordsPerLink := scan.words / internal
	if wordsPerLink < wordsPerLinkMin {
		issues = append(issues, issue("LINK_DENSITY", model.SeverityLow,
			"Link density too high",
			fmt.Sprintf("One internal link every %d words; denser than 1 per %d words reads as link spam.",
				wordsPerLink, wordsPerLinkMin)))
	} else if wordsPerLink > wordsPerLinkMax {
		issues = append(issues, issue("LINK_DENSITY", model.SeverityLow,
			"Link density too low",
			fmt.Sprintf("One internal link every %d words; sparser than 1 per %d words leaves sections unconnected.",
				wordsPerLink, wordsPerLinkMax)))
	}

	return issues
}

func checkRepetition(scan *linkScan) []model.Issue {
	pairs := map[string]int{}
	for _, l := range scan.links {
		text := strings.ToLower(strings.TrimSpace(l.text))
		if text == "" {
			continue
		}
		pairs[text+"\x00"+l.href]++
	}

	repeated := 0
	var worst string
	worstCount := 0
	for key, count := range pairs {
		if count > maxAnchorDestRepeats {
			repeated++
			if count > worstCount {
				worstCount = count
				worst = strings.SplitN(key, "\x00", 2)[0]
			}
		}
	}
	if repeated == 0 {
		return nil
	}
	return []model.Issue{{
		RuleID:          "LINK_REPEATED_PAIR",
		Severity:        model.SeverityLow,
		Title:           "Repeated anchor-destination pairs",
		Description:     fmt.Sprintf("%d anchor-destination pairs appear more than %d times (worst: %d occurrences).", repeated, maxAnchorDestRepeats, worstCount),
		AffectedElement: model.Excerpt(worst),
	}}
}

func checkNavigation(scan *linkScan) []model.Issue {
	if scan.words <= tocWordThreshold {
		return nil
	}
	if scan.tocSignal || scan.headingIDs > 0 {
		return nil
	}
	return []model.Issue{{
		RuleID:      "LINK_TOC",
		Severity:    model.SeverityMedium,
		Title:       "Long content without jump navigation",
		Description: fmt.Sprintf("%d words with neither a table of contents nor heading id attributes for jump links.", scan.words),
		ExampleFix:  "Add a table of contents linking to id-bearing headings.",
	}}
}

func collectLinks(doc *html.Node) *linkScan {
	scan := &linkScan{}

	var walk func(n *html.Node, inMain, inChrome bool, para *html.Node, paraIdx int, sectionFirst bool)

	lastWasHeading := false
	paraIndex := -1

	var visit func(n *html.Node, inMain, inChrome bool)
	visit = func(n *html.Node, inMain, inChrome bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "main", "article":
				inMain = true
				scan.hasMain = true
			case "nav", "header", "footer", "aside":
				inChrome = true
			case "script", "style", "noscript":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				lastWasHeading = true
				if attrVal(n, "id") != "" {
					scan.headingIDs++
				}
			case "p":
				paraIndex++
				text := nodeText(n)
				if !inChrome {
					scan.words += textutil.WordCount(text)
				}
				walk(n, inMain, inChrome, n, paraIndex, lastWasHeading)
				lastWasHeading = false
				return
			}
			if hasTocSignal(n) {
				scan.tocSignal = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inMain, inChrome)
		}
	}

	walk = func(n *html.Node, inMain, inChrome bool, para *html.Node, paraIdx int, sectionFirst bool) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attrVal(n, "href")
			if href != "" {
				scan.links = append(scan.links, pageLink{
					text:         strings.TrimSpace(nodeText(n)),
					href:         href,
					internal:     isInternalHref(href),
					inMain:       inMain,
					inChrome:     inChrome,
					paraText:     strings.TrimSpace(nodeText(para)),
					paraIndex:    paraIdx,
					sectionFirst: sectionFirst,
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inMain, inChrome, para, paraIdx, sectionFirst)
		}
	}

	visit(doc, false, false)
	scan.paraCount = paraIndex + 1

	// Links outside paragraphs (lists, navs) still count for placement and
	// repetition checks.
	var loose func(n *html.Node, inMain, inChrome, inPara bool)
	loose = func(n *html.Node, inMain, inChrome, inPara bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "main", "article":
				inMain = true
			case "nav", "header", "footer", "aside":
				inChrome = true
			case "p":
				inPara = true
			case "script", "style", "noscript":
				return
			case "a":
				if !inPara {
					if href := attrVal(n, "href"); href != "" {
						scan.links = append(scan.links, pageLink{
							text:     strings.TrimSpace(nodeText(n)),
							href:     href,
							internal: isInternalHref(href),
							inMain:   inMain,
							inChrome: inChrome,
						})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			loose(c, inMain, inChrome, inPara)
		}
	}
	loose(doc, false, false, false)

	return scan
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func hasTocSignal(n *html.Node) bool {
	marker := strings.ToLower(attrVal(n, "id") + " " + attrVal(n, "class"))
	return strings.Contains(marker, "toc") || strings.Contains(marker, "table-of-contents")
}

func isInternalHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "//") {
		return false
	}
	return !strings.HasPrefix(href, "mailto:") && !strings.HasPrefix(href, "tel:")
}
