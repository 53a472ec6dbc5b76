package rules

import (
	"strings"
	"testing"

	"github.com/avetrov/contentaudit/internal/model"
)

func TestCheckRetrievalCost_EmptyInput(t *testing.T) {
	if issues := CheckRetrievalCost(model.AuditInput{}); len(issues) != 0 {
		t.Errorf("expected no issues for empty input, got %v", issues)
	}
}

func TestCheckRetrievalCost_DOMSize(t *testing.T) {
	// 1500 tag opens: at the warn boundary, over 1000 -> medium.
	in := model.AuditInput{HTML: strings.Repeat("<li>x</li>", 1500)}
	issues := findRule(CheckRetrievalCost(in), "COST_DOM_SIZE")
	if len(issues) != 1 {
		t.Fatalf("expected 1 DOM-size finding, got %d", len(issues))
	}
	if issues[0].Severity != model.SeverityMedium {
		t.Errorf("1500 nodes should warn at medium severity, got %s", issues[0].Severity)
	}

	// Over 1500 -> high.
	in.HTML = strings.Repeat("<li>x</li>", 1501)
	issues = findRule(CheckRetrievalCost(in), "COST_DOM_SIZE")
	if len(issues) != 1 || issues[0].Severity != model.SeverityHigh {
		t.Errorf("1501 nodes should fire at high severity, got %v", issues)
	}

	// Small document stays quiet.
	in.HTML = strings.Repeat("<li>x</li>", 1000)
	if hasRule(CheckRetrievalCost(in), "COST_DOM_SIZE") {
		t.Error("1000 nodes is at the boundary and should not fire")
	}
}

func TestCheckRetrievalCost_TTFB(t *testing.T) {
	cases := []struct {
		ttfb int
		want model.Severity
		none bool
	}{
		{150, "", true},
		{200, "", true},
		{201, model.SeverityHigh, false},
		{500, model.SeverityHigh, false},
		{501, model.SeverityCritical, false},
	}

	for _, tc := range cases {
		in := model.AuditInput{Metrics: &model.FetchMetrics{TTFBMillis: tc.ttfb, ContentEncoding: "gzip"}}
		issues := findRule(CheckRetrievalCost(in), "COST_TTFB")
		if tc.none {
			if len(issues) != 0 {
				t.Errorf("ttfb=%d: expected no finding, got %v", tc.ttfb, issues)
			}
			continue
		}
		if len(issues) != 1 {
			t.Errorf("ttfb=%d: expected 1 finding, got %d", tc.ttfb, len(issues))
			continue
		}
		if issues[0].Severity != tc.want {
			t.Errorf("ttfb=%d: expected %s, got %s", tc.ttfb, tc.want, issues[0].Severity)
		}
	}
}

func TestCheckRetrievalCost_Compression(t *testing.T) {
	for _, enc := range []string{"gzip", "br", "deflate", "zstd", "GZIP"} {
		in := model.AuditInput{Metrics: &model.FetchMetrics{TTFBMillis: 100, ContentEncoding: enc}}
		if hasRule(CheckRetrievalCost(in), "COST_COMPRESSION") {
			t.Errorf("encoding %q should be recognized", enc)
		}
	}

	in := model.AuditInput{Metrics: &model.FetchMetrics{TTFBMillis: 100}}
	if !hasRule(CheckRetrievalCost(in), "COST_COMPRESSION") {
		t.Error("missing encoding should fire the compression rule")
	}

	if hasRule(CheckRetrievalCost(model.AuditInput{HTML: "<p>x</p>"}), "COST_COMPRESSION") {
		t.Error("compression is only judged when fetch metrics are supplied")
	}
}
