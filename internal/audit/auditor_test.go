package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/avetrov/contentaudit/internal/facts"
	"github.com/avetrov/contentaudit/internal/model"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	a := New()
	report := a.Run(context.Background(), "stdin", model.AuditInput{})

	if report == nil {
		t.Fatal("expected a report for empty input")
	}
	if len(report.Issues) != 0 {
		t.Errorf("empty input must yield no issues, got %d", len(report.Issues))
	}
	if len(report.Claims) != 0 {
		t.Errorf("empty input must yield no claims, got %d", len(report.Claims))
	}
	if report.Subject != "stdin" {
		t.Errorf("subject lost: %q", report.Subject)
	}
}

func TestRun_ConcatenatesValidatorFindings(t *testing.T) {
	first := Validator{Name: "first", Check: func(model.AuditInput) []model.Issue {
		return []model.Issue{{RuleID: "A1", Severity: model.SeverityLow, Title: "a"}}
	}}
	second := Validator{Name: "second", Check: func(model.AuditInput) []model.Issue {
		return []model.Issue{
			{RuleID: "B1", Severity: model.SeverityHigh, Title: "b"},
			{RuleID: "B2", Severity: model.SeverityMedium, Title: "c"},
		}
	}}

	a := New(WithValidators([]Validator{first, second}), WithoutFacts())
	report := a.Run(context.Background(), "test", model.AuditInput{Text: "irrelevant"})

	if len(report.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(report.Issues))
	}
	want := []string{"A1", "B1", "B2"}
	for i, id := range want {
		if report.Issues[i].RuleID != id {
			t.Errorf("issue %d: got %s, want %s (validator order must be preserved)", i, report.Issues[i].RuleID, id)
		}
	}
}

func TestRun_HTMLOnlyInput(t *testing.T) {
	a := New(WithoutFacts())
	in := model.AuditInput{
		HTML: "<html><body><h1>One</h1><h1>Two</h1><p>Text</p></body></html>",
	}

	report := a.Run(context.Background(), "page", in)

	found := false
	for _, issue := range report.Issues {
		if issue.RuleID == "HTML_MULTIPLE_H1" {
			found = true
		}
	}
	if !found {
		t.Error("expected the markup validators to run on HTML-only input")
	}
}

func TestRun_FactClaimsVerified(t *testing.T) {
	verifier := facts.VerifierFunc(func(_ context.Context, _ string) (facts.Verification, error) {
		return facts.Verification{Status: model.StatusVerified}, nil
	})
	pipeline := facts.NewPipeline(verifier, facts.WithPipelineClock(fixedClock(2026)))

	a := New(
		WithPipeline(pipeline),
		WithExtractor(facts.NewExtractor(facts.WithClock(fixedClock(2026)))),
		WithClock(fixedClock(2026)),
	)

	in := model.AuditInput{Text: "Mobile devices account for 62% of traffic in 2026 worldwide."}
	report := a.Run(context.Background(), "article", in)

	if len(report.Claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(report.Claims))
	}
	if report.Claims[0].VerificationStatus != model.StatusVerified {
		t.Errorf("claim not verified: %s", report.Claims[0].VerificationStatus)
	}
	if report.VerifiedClaims() != 1 {
		t.Errorf("VerifiedClaims() = %d, want 1", report.VerifiedClaims())
	}
}

func TestRun_WithoutFactsSkipsExtraction(t *testing.T) {
	calls := 0
	verifier := facts.VerifierFunc(func(_ context.Context, _ string) (facts.Verification, error) {
		calls++
		return facts.Verification{Status: model.StatusVerified}, nil
	})
	pipeline := facts.NewPipeline(verifier, facts.WithPipelineClock(fixedClock(2026)))

	a := New(WithPipeline(pipeline), WithoutFacts())
	report := a.Run(context.Background(), "article", model.AuditInput{
		Text: "Mobile devices account for 62% of traffic in 2026 worldwide.",
	})

	if calls != 0 {
		t.Errorf("verifier must not be called with facts disabled, got %d calls", calls)
	}
	if len(report.Claims) != 0 {
		t.Errorf("expected no claims, got %d", len(report.Claims))
	}
}

func TestRun_WordCount(t *testing.T) {
	a := New(WithoutFacts())
	report := a.Run(context.Background(), "x", model.AuditInput{Text: "one two three four five"})

	if report.WordCount != 5 {
		t.Errorf("expected word count 5, got %d", report.WordCount)
	}
}

func TestCountBySeverity(t *testing.T) {
	report := &model.Report{Issues: []model.Issue{
		{RuleID: "A", Severity: model.SeverityHigh},
		{RuleID: "B", Severity: model.SeverityHigh},
		{RuleID: "C", Severity: model.SeverityLow},
	}}

	counts := report.CountBySeverity()
	if counts[model.SeverityHigh] != 2 || counts[model.SeverityLow] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestDefaultValidators_Complete(t *testing.T) {
	names := make(map[string]bool)
	for _, v := range DefaultValidators() {
		if v.Check == nil {
			t.Errorf("validator %s has no check function", v.Name)
		}
		if names[v.Name] {
			t.Errorf("duplicate validator name %s", v.Name)
		}
		names[v.Name] = true
	}

	for _, want := range []string{"context-qualifiers", "entity-placement", "language", "filler", "micro-semantics", "readability", "semantic-depth", "html-nesting", "content-structure", "seo", "internal-linking", "website-type", "retrieval-cost"} {
		if !names[want] {
			t.Errorf("missing validator %s (have: %s)", want, strings.Join(keys(names), ", "))
		}
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
