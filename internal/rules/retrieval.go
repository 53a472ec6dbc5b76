package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avetrov/contentaudit/internal/model"
)

// Cost-of-retrieval thresholds.
const (
	domNodesWarn = 1000
	domNodesHigh = 1500
	ttfbHighMs   = 200
	ttfbCritMs   = 500
)

var tagOpenRe = regexp.MustCompile(`<[a-zA-Z]`)

var knownEncodings = map[string]bool{
	"gzip": true, "br": true, "deflate": true, "zstd": true,
}

// CheckRetrievalCost audits the technical cost of machine-reading the page:
// estimated DOM size, time to first byte, and response compression. The
// TTFB and compression checks run only when fetch metrics were supplied.
func CheckRetrievalCost(in model.AuditInput) []model.Issue {
	var issues []model.Issue

	if strings.TrimSpace(in.HTML) != "" {
		// DOM size is estimated from tag-open counts; close tags and text
		// nodes are ignored on purpose.
		nodes := len(tagOpenRe.FindAllString(in.HTML, -1))
		switch {
		case nodes > domNodesHigh:
			issues = append(issues, issue("COST_DOM_SIZE", model.SeverityHigh,
				"Very large DOM",
				fmt.Sprintf("Estimated %d DOM nodes (over %d). Large trees slow every machine reader.", nodes, domNodesHigh)))
		case nodes > domNodesWarn:
			issues = append(issues, issue("COST_DOM_SIZE", model.SeverityMedium,
				"Large DOM",
				fmt.Sprintf("Estimated %d DOM nodes (over %d).", nodes, domNodesWarn)))
		}
	}

	m := in.Metrics
	if m == nil {
		return issues
	}

	switch {
	case m.TTFBMillis > ttfbCritMs:
		issues = append(issues, issue("COST_TTFB", model.SeverityCritical,
			"Very slow time to first byte",
			fmt.Sprintf("TTFB is %dms (over %dms).", m.TTFBMillis, ttfbCritMs)))
	case m.TTFBMillis > ttfbHighMs:
		issues = append(issues, issue("COST_TTFB", model.SeverityHigh,
			"Slow time to first byte",
			fmt.Sprintf("TTFB is %dms (over %dms).", m.TTFBMillis, ttfbHighMs)))
	}

	if !knownEncodings[strings.ToLower(strings.TrimSpace(m.ContentEncoding))] {
		issues = append(issues, model.Issue{
			RuleID:      "COST_COMPRESSION",
			Severity:    model.SeverityMedium,
			Title:       "No response compression",
			Description: fmt.Sprintf("Content-Encoding is %q; no recognized compression (gzip, br, deflate, zstd) is in use.", m.ContentEncoding),
			ExampleFix:  "Enable gzip or brotli compression on the web server.",
		})
	}

	return issues
}
