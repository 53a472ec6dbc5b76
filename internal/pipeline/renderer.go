package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avetrov/contentaudit/internal/model"
)

// Renderer writes an audit report in one of the supported formats.
type Renderer struct {
	pretty bool
}

// NewRenderer creates a renderer. Pretty only affects JSON output.
func NewRenderer(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Render writes the report to w in the given format: "text", "json", or
// "yaml".
func (r *Renderer) Render(w io.Writer, report *model.Report, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return r.renderJSON(w, report)
	case "yaml", "yml":
		return r.renderYAML(w, report)
	case "text", "":
		return r.renderText(w, report)
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json, yaml)", format)
	}
}

func (r *Renderer) renderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

func (r *Renderer) renderYAML(w io.Writer, report *model.Report) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(report)
}

// severityOrder lists severities from most to least urgent for text output.
var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
}

func (r *Renderer) renderText(w io.Writer, report *model.Report) error {
	fmt.Fprintf(w, "Content Audit: %s\n", report.Subject)
	fmt.Fprintf(w, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Words: %d\n\n", report.WordCount)

	if len(report.Issues) == 0 {
		fmt.Fprintln(w, "No issues found.")
	} else {
		counts := report.CountBySeverity()
		var parts []string
		for _, sev := range severityOrder {
			if counts[sev] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
			}
		}
		fmt.Fprintf(w, "Issues (%d total: %s)\n", len(report.Issues), strings.Join(parts, ", "))

		issues := make([]model.Issue, len(report.Issues))
		copy(issues, report.Issues)
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].Severity.Rank() < issues[j].Severity.Rank()
		})

		for _, issue := range issues {
			fmt.Fprintf(w, "\n  [%s] %s: %s\n", strings.ToUpper(string(issue.Severity)), issue.RuleID, issue.Title)
			fmt.Fprintf(w, "      %s\n", issue.Description)
			if issue.AffectedElement != "" {
				fmt.Fprintf(w, "      affected: %s\n", issue.AffectedElement)
			}
			if issue.ExampleFix != "" {
				fmt.Fprintf(w, "      fix: %s\n", issue.ExampleFix)
			}
		}
	}

	if len(report.Claims) > 0 {
		fmt.Fprintf(w, "\nFact Claims (%d extracted, %d verified)\n", len(report.Claims), report.VerifiedClaims())
		for _, claim := range report.Claims {
			fmt.Fprintf(w, "\n  [%s] %s (%s, confidence %.2f)\n", claim.VerificationStatus, claim.Text, claim.ClaimType, claim.Confidence)
			for _, src := range claim.VerificationSources {
				fmt.Fprintf(w, "      source: %s\n", src.URL)
			}
			if claim.Suggestion != "" {
				fmt.Fprintf(w, "      suggestion: %s\n", claim.Suggestion)
			}
		}
	}

	return nil
}
