package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/avetrov/contentaudit/internal/model"
)

// PageParams is the caller-supplied context for one page analysis.
type PageParams struct {
	Language      string
	CentralEntity string
	Attributes    []string
	Predicates    []string
	WebsiteType   model.WebsiteType
}

// BuildInput turns fetched HTML into a complete AuditInput: visible text
// for the text validators, structural counts, and precomputed entity
// mentions for the placement auditor. Unparseable markup degrades to a
// text-only input.
func BuildInput(htmlContent string, metrics *model.FetchMetrics, params PageParams) model.AuditInput {
	in := model.AuditInput{
		HTML:          htmlContent,
		Language:      params.Language,
		CentralEntity: params.CentralEntity,
		Attributes:    params.Attributes,
		Predicates:    params.Predicates,
		WebsiteType:   params.WebsiteType,
		Metrics:       metrics,
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		in.Text = htmlContent
		return in
	}

	analysis := analyzePage(doc, params.CentralEntity)
	in.Text = analysis.text
	if params.CentralEntity != "" || analysis.totalNodes > 0 {
		in.Structural = &model.StructuralInfo{
			EntityMentions:   analysis.mentions,
			MainContentBytes: len(analysis.mainText),
			TotalNodes:       analysis.totalNodes,
			ContentNodes:     analysis.contentNodes,
		}
	}

	return in
}

// contentTags are the elements counted as content-bearing when judging
// the markup-to-content ratio of a page.
var contentTags = map[string]bool{
	"p": true, "li": true, "td": true, "th": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"figcaption": true, "dd": true, "dt": true,
}

type pageAnalysis struct {
	text         string
	mainText     string
	totalNodes   int
	contentNodes int
	mentions     []model.EntityMention
}

// analyzePage walks the document once, collecting visible text, node
// counts, and entity mention positions. Scripts, styles, and frames are
// invisible by definition.
func analyzePage(doc *html.Node, entity string) pageAnalysis {
	var a pageAnalysis
	var buf strings.Builder
	var mainBuf strings.Builder
	entityLower := strings.ToLower(entity)

	inH1 := false
	inMain := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			a.totalNodes++
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
			if contentTags[n.Data] {
				a.contentNodes++
			}

			wasH1, wasMain := inH1, inMain
			if n.Data == "h1" {
				inH1 = true
			}
			if n.Data == "main" || n.Data == "article" {
				inMain = true
			}
			defer func() { inH1, inMain = wasH1, wasMain }()
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if entityLower != "" {
					lower := strings.ToLower(text)
					for idx := 0; ; {
						pos := strings.Index(lower[idx:], entityLower)
						if pos < 0 {
							break
						}
						a.mentions = append(a.mentions, model.EntityMention{
							Offset: buf.Len() + idx + pos,
							InH1:   inH1,
						})
						idx += pos + len(entityLower)
					}
				}
				buf.WriteString(text)
				buf.WriteString(" ")
				if inMain {
					mainBuf.WriteString(text)
					mainBuf.WriteString(" ")
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	a.text = strings.TrimSpace(buf.String())
	a.mainText = strings.TrimSpace(mainBuf.String())
	if a.mainText == "" {
		a.mainText = a.text
	}
	return a
}
