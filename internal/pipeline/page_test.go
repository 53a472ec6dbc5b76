package pipeline

import (
	"strings"
	"testing"

	"github.com/avetrov/contentaudit/internal/model"
)

func TestBuildInput_VisibleText(t *testing.T) {
	html := `<html><head><title>T</title><script>var x = 1;</script>
		<style>p { color: red }</style></head>
		<body><h1>Widgets</h1><p>Widgets are great.</p></body></html>`

	in := BuildInput(html, nil, PageParams{Language: "en"})

	if !strings.Contains(in.Text, "Widgets are great.") {
		t.Errorf("visible text lost: %q", in.Text)
	}
	if strings.Contains(in.Text, "var x") || strings.Contains(in.Text, "color: red") {
		t.Errorf("script/style text leaked into visible text: %q", in.Text)
	}
	if in.Language != "en" {
		t.Errorf("params not forwarded: %q", in.Language)
	}
}

func TestBuildInput_EntityMentions(t *testing.T) {
	html := `<html><body>
		<h1>Acme Widgets Review</h1>
		<p>We tested Acme Widgets for a month.</p>
	</body></html>`

	in := BuildInput(html, nil, PageParams{CentralEntity: "Acme Widgets"})

	if in.Structural == nil {
		t.Fatal("expected structural info when an entity is set")
	}
	if len(in.Structural.EntityMentions) != 2 {
		t.Fatalf("expected 2 mentions, got %d", len(in.Structural.EntityMentions))
	}
	if !in.Structural.EntityMentions[0].InH1 {
		t.Error("first mention should be flagged as inside the h1")
	}
	if in.Structural.EntityMentions[1].InH1 {
		t.Error("second mention is body text, not h1")
	}
	if in.Structural.EntityMentions[0].Offset >= in.Structural.EntityMentions[1].Offset {
		t.Errorf("mention offsets out of order: %d then %d",
			in.Structural.EntityMentions[0].Offset, in.Structural.EntityMentions[1].Offset)
	}
}

func TestBuildInput_NodeCounts(t *testing.T) {
	html := `<html><body>
		<div><div><div><p>one</p></div></div></div>
		<p>two</p>
		<h2>head</h2>
	</body></html>`

	in := BuildInput(html, nil, PageParams{})

	if in.Structural == nil {
		t.Fatal("expected structural info")
	}
	if in.Structural.ContentNodes != 3 {
		t.Errorf("expected 3 content nodes (two p, one h2), got %d", in.Structural.ContentNodes)
	}
	if in.Structural.TotalNodes <= in.Structural.ContentNodes {
		t.Errorf("wrapper divs must count as nodes: total %d, content %d",
			in.Structural.TotalNodes, in.Structural.ContentNodes)
	}
}

func TestBuildInput_MainContentBytes(t *testing.T) {
	html := `<html><body>
		<nav>Home About Contact and plenty of chrome text here</nav>
		<main><p>Short body.</p></main>
	</body></html>`

	in := BuildInput(html, nil, PageParams{})

	if in.Structural == nil {
		t.Fatal("expected structural info")
	}
	if in.Structural.MainContentBytes != len("Short body.") {
		t.Errorf("main content bytes = %d, want %d", in.Structural.MainContentBytes, len("Short body."))
	}
}

func TestBuildInput_MetricsForwarded(t *testing.T) {
	metrics := &model.FetchMetrics{TTFBMillis: 420, ContentEncoding: "gzip"}
	in := BuildInput("<html><body><p>x</p></body></html>", metrics, PageParams{})

	if in.Metrics == nil || in.Metrics.TTFBMillis != 420 {
		t.Errorf("metrics not forwarded: %+v", in.Metrics)
	}
}
