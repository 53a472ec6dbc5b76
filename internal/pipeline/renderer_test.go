package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avetrov/contentaudit/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Subject:     "https://example.com/article",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		WordCount:   420,
		Issues: []model.Issue{
			{RuleID: "FILLER_INTENSIFIER", Severity: model.SeverityLow, Title: "Intensifier filler", Description: "3 intensifiers in 420 words."},
			{RuleID: "COST_TTFB", Severity: model.SeverityCritical, Title: "Slow first byte", Description: "TTFB was 740ms."},
		},
		Claims: []model.FactClaim{
			{
				ID:                 "claim-1",
				Text:               "Mobile accounts for 62% of traffic.",
				ClaimType:          model.ClaimTypeStatistic,
				Confidence:         0.8,
				VerificationStatus: model.StatusVerified,
				VerificationSources: []model.VerificationSource{
					{URL: "https://example.com/stats", Title: "Stats"},
				},
			},
		},
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(true).Render(&buf, sampleReport(), "json"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var decoded model.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Issues) != 2 || decoded.Issues[0].RuleID != "FILLER_INTENSIFIER" {
		t.Errorf("issues lost in JSON round trip: %+v", decoded.Issues)
	}
	if len(decoded.Claims) != 1 || decoded.Claims[0].VerificationStatus != model.StatusVerified {
		t.Errorf("claims lost in JSON round trip: %+v", decoded.Claims)
	}
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).Render(&buf, sampleReport(), "yaml"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var decoded model.Report
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Subject != "https://example.com/article" {
		t.Errorf("subject lost: %q", decoded.Subject)
	}
	if len(decoded.Issues) != 2 {
		t.Errorf("issues lost in YAML round trip: %+v", decoded.Issues)
	}
}

func TestRenderer_TextSortsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).Render(&buf, sampleReport(), "text"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	critical := strings.Index(out, "COST_TTFB")
	low := strings.Index(out, "FILLER_INTENSIFIER")
	if critical < 0 || low < 0 {
		t.Fatalf("rule ids missing from text output:\n%s", out)
	}
	if critical > low {
		t.Error("critical issues must render before low ones")
	}

	if !strings.Contains(out, "1 verified") {
		t.Errorf("claim summary missing:\n%s", out)
	}
}

func TestRenderer_TextEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	report := &model.Report{Subject: "clean", Issues: []model.Issue{}}
	if err := NewRenderer(false).Render(&buf, report, "text"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(buf.String(), "No issues found.") {
		t.Errorf("empty report should say so:\n%s", buf.String())
	}
}

func TestRenderer_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).Render(&buf, sampleReport(), "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
