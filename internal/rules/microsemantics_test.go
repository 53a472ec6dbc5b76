package rules

import (
	"testing"

	"github.com/avetrov/contentaudit/internal/model"
)

func TestCheckMicroSemantics_BelowMinimumSampleSize(t *testing.T) {
	// Four heavily flawed sentences: still below the 5-sentence minimum.
	in := model.AuditInput{
		Text: "There is a problem. There is another. It is bad. There is more.",
	}
	if issues := CheckMicroSemantics(in); len(issues) != 0 {
		t.Errorf("expected no findings under 5 sentences, got %v", issues)
	}
}

func TestCheckMicroSemantics_WeakOpeners(t *testing.T) {
	// 2 of 5 sentences open weakly: 40% > 20%.
	in := model.AuditInput{
		Text: "There is a clear trend. There are three causes. Teams adopt tooling. Budgets shift yearly. Vendors consolidate fast.",
	}
	issues := findRule(CheckMicroSemantics(in), "MICRO_WEAK_OPENER")
	if len(issues) != 1 {
		t.Fatalf("expected 1 weak-opener finding, got %d", len(issues))
	}

	// 1 of 5 sentences = 20%, at the limit: silent.
	in.Text = "There is a clear trend. Teams adopt tooling. Budgets shift yearly. Vendors consolidate fast. Margins tighten quarterly."
	if hasRule(CheckMicroSemantics(in), "MICRO_WEAK_OPENER") {
		t.Error("exactly 20% weak openers should not fire")
	}
}

func TestCheckMicroSemantics_HedgedSentences(t *testing.T) {
	// 3 of 6 sentences are modal-only: 50% > 40%.
	in := model.AuditInput{
		Text: "Adoption might slow. Budgets could tighten. Vendors may consolidate. Teams ship weekly. Margins stay flat. Churn stays low.",
	}
	if !hasRule(CheckMicroSemantics(in), "MICRO_HEDGED") {
		t.Error("expected a hedged finding at 50% modal-only sentences")
	}

	// 2 of 6 sentences = 33%, under the 40% limit.
	in.Text = "Adoption might slow. Budgets could tighten. Vendors ship weekly. Teams ship weekly. Margins stay flat. Churn stays low."
	if hasRule(CheckMicroSemantics(in), "MICRO_HEDGED") {
		t.Error("33% modal-only sentences should not fire")
	}
}

func TestCheckMicroSemantics_ModalMix(t *testing.T) {
	// 2 of 5 sentences mix indicative and modal verbs: 40% > 30%.
	in := model.AuditInput{
		Text: "The tool is fast and could scale. The report is clear and might help. Teams ship weekly. Margins stay flat. Churn stays low.",
	}
	if !hasRule(CheckMicroSemantics(in), "MICRO_MODAL_MIX") {
		t.Error("expected a modal-mix finding at 40%")
	}
}

func TestCheckMicroSemantics_VaguePredicates(t *testing.T) {
	// 2 of 5 sentences lean on do/make/get verbs: 40% > 25%.
	in := model.AuditInput{
		Text: "The team makes an analysis. The report does a comparison. Revenue is stable. Traffic is organic. Users churn rarely.",
	}
	issues := findRule(CheckMicroSemantics(in), "MICRO_VAGUE_PREDICATE")
	if len(issues) != 1 {
		t.Fatalf("expected 1 vague-predicate finding, got %d", len(issues))
	}
	if issues[0].ExampleFix == "" {
		t.Error("expected a rewrite suggestion")
	}
}
