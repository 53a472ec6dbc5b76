package rules

import (
	"strings"
	"testing"

	"github.com/avetrov/contentaudit/internal/model"
)

const goodMetaDesc = "A practical guide to auditing content quality, covering structure, readability, and factual accuracy."

func seoDoc(head string) string {
	return "<html><head>" + head + "</head><body><p>Body.</p></body></html>"
}

func TestCheckSEO_FragmentSkipped(t *testing.T) {
	in := model.AuditInput{HTML: "<p>Just a fragment without a document head.</p>"}
	if issues := CheckSEO(in); len(issues) != 0 {
		t.Errorf("markup fragments must not be held to head requirements, got %+v", issues)
	}
}

func TestCheckSEO_GoodDescription(t *testing.T) {
	in := model.AuditInput{HTML: seoDoc(`<meta name="description" content="` + goodMetaDesc + `">`)}
	if issues := CheckSEO(in); len(issues) != 0 {
		t.Errorf("a well-sized description must stay silent, got %+v", issues)
	}
}

func TestCheckSEO_MissingDescription(t *testing.T) {
	in := model.AuditInput{HTML: seoDoc(`<title>Page</title>`)}
	issues := CheckSEO(in)
	if len(issues) != 1 || issues[0].RuleID != "SEO_META_DESCRIPTION" {
		t.Fatalf("expected SEO_META_DESCRIPTION, got %+v", issues)
	}
}

func TestCheckSEO_DescriptionTooShort(t *testing.T) {
	in := model.AuditInput{HTML: seoDoc(`<meta name="description" content="Quality audits.">`)}
	issues := CheckSEO(in)
	if len(issues) != 1 || issues[0].RuleID != "SEO_META_DESCRIPTION_LENGTH" {
		t.Fatalf("expected SEO_META_DESCRIPTION_LENGTH, got %+v", issues)
	}
	if !strings.Contains(issues[0].Description, "15 characters") {
		t.Errorf("description must embed the measured length: %s", issues[0].Description)
	}
}

func TestCheckSEO_DescriptionTooLong(t *testing.T) {
	long := strings.Repeat(goodMetaDesc+" ", 2)
	in := model.AuditInput{HTML: seoDoc(`<meta name="description" content="` + long + `">`)}
	issues := CheckSEO(in)
	if len(issues) != 1 || issues[0].RuleID != "SEO_META_DESCRIPTION_LENGTH" {
		t.Fatalf("expected SEO_META_DESCRIPTION_LENGTH, got %+v", issues)
	}
}
