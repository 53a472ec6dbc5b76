package rules

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/avetrov/contentaudit/internal/model"
)

// Meta description length bounds in characters. Search engines truncate
// past the upper bound and pad thin ones with page text.
const (
	metaDescMinLen = 70
	metaDescMaxLen = 160
)

// CheckSEO verifies the meta description of a full document: present,
// and within the display length bounds. Markup fragments without a head
// are skipped.
func CheckSEO(in model.AuditInput) []model.Issue {
	lower := strings.ToLower(in.HTML)
	if !strings.Contains(lower, "<head") && !strings.Contains(lower, "<html") {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(in.HTML))
	if err != nil {
		return nil
	}

	desc, found := metaDescription(doc)
	if !found {
		return []model.Issue{issue("SEO_META_DESCRIPTION", model.SeverityMedium,
			"Meta description missing",
			"The document head carries no <meta name=\"description\">; search snippets fall back to arbitrary page text.")}
	}

	length := len(strings.TrimSpace(desc))
	if length < metaDescMinLen || length > metaDescMaxLen {
		return []model.Issue{{
			RuleID:          "SEO_META_DESCRIPTION_LENGTH",
			Severity:        model.SeverityLow,
			Title:           "Meta description length out of range",
			Description:     fmt.Sprintf("Meta description is %d characters (expected %d-%d).", length, metaDescMinLen, metaDescMaxLen),
			AffectedElement: model.Excerpt(desc),
		}}
	}

	return nil
}

func metaDescription(doc *html.Node) (string, bool) {
	var desc string
	var found bool

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var name, content string
			for _, attr := range n.Attr {
				switch strings.ToLower(attr.Key) {
				case "name":
					name = strings.ToLower(attr.Val)
				case "content":
					content = attr.Val
				}
			}
			if name == "description" {
				desc, found = content, true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return desc, found
}
