package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/avetrov/contentaudit/internal/model"
)

// Minimum product images for e-commerce pages.
const ecomImagesMin = 2

var (
	priceRe        = regexp.MustCompile(`(?i)[$€£]\s?\d|(\d+([.,]\d{2})?\s?(USD|EUR|GBP))|\bprice\b`)
	availabilityRe = regexp.MustCompile(`(?i)\b(in stock|out of stock|available|availability|ships (in|within)|sold out)\b`)
	authorRe       = regexp.MustCompile(`(?i)\b(by [A-Z][a-z]+|written by|author:|posted by)\b`)
	pubDateRe      = regexp.MustCompile(`(?i)\b(published|updated|posted)( on)?[:\s]|(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}|\b\d{4}-\d{2}-\d{2}\b`)
	taxonomyRe     = regexp.MustCompile(`(?i)\b(categor(y|ies)|tags?|filed under|topics?)\b`)
	pricingRe      = regexp.MustCompile(`(?i)\b(pricing|price plan|per (month|user|seat)|free (trial|tier|plan))\b`)
	ctaRe          = regexp.MustCompile(`(?i)\b(sign up|get started|start (your )?free trial|request a demo|book a demo|try it free)\b`)
	caseStudyRe    = regexp.MustCompile(`(?i)\b(case stud(y|ies)|success stor(y|ies)|testimonials?|trusted by|our clients)\b`)
	contactRe      = regexp.MustCompile(`(?i)\b(contact (us|sales)|talk to (us|sales)|get in touch|request a quote)\b`)
	phoneRe        = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
	addressRe      = regexp.MustCompile(`(?i)\b\d+\s+\w+\s+(street|st\.?|avenue|ave\.?|road|rd\.?|boulevard|blvd\.?|lane|ln\.?|drive|dr\.?)\b`)
	serviceAreaRe  = regexp.MustCompile(`(?i)\b(serving|we serve|service area|areas? we cover|throughout the)\b`)
	hoursRe        = regexp.MustCompile(`(?i)\b(opening hours|open (from|daily)|hours:|mon(day)?\s?[-–]\s?fri(day)?|\d{1,2}(:\d{2})?\s?(am|pm)\s?[-–]\s?\d{1,2}(:\d{2})?\s?(am|pm))\b`)
	locationRe     = regexp.MustCompile(`(?i)\b(directions|find us|our location|google maps|view map)\b`)
)

// CheckWebsiteType applies type-specific structural and schema expectations
// for the detected site type. Each check is independent and additive; a
// missing marker produces exactly one finding per rule. Malformed JSON-LD
// blocks are skipped, never fatal.
func CheckWebsiteType(in model.AuditInput) []model.Issue {
	if in.WebsiteType == "" || strings.TrimSpace(in.HTML) == "" {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(in.HTML))
	if err != nil {
		return nil
	}

	types := structuredDataTypes(doc)
	text := visibleText(doc)
	images := countTags(doc, "img")

	switch in.WebsiteType {
	case model.SiteTypeEcommerce:
		return checkEcommerce(types, text, images)
	case model.SiteTypeSaaS:
		return checkSaaS(types, text)
	case model.SiteTypeB2B:
		return checkB2B(types, text)
	case model.SiteTypeBlog:
		return checkBlog(types, text)
	case model.SiteTypeLocalBusiness:
		return checkLocalBusiness(doc, types, text)
	default:
		return nil
	}
}

func checkEcommerce(types map[string]bool, text string, images int) []model.Issue {
	var issues []model.Issue

	if !types["Product"] {
		issues = append(issues, issue("ECOM_PRODUCT_SCHEMA", model.SeverityHigh,
			"Missing Product structured data",
			"No Product-typed JSON-LD block found; product pages need machine-readable offer data."))
	}
	if !priceRe.MatchString(text) || !availabilityRe.MatchString(text) {
		issues = append(issues, issue("ECOM_PRICE_AVAILABILITY", model.SeverityHigh,
			"Price or availability not visible",
			"The page text shows no visible price together with availability (in stock / out of stock)."))
	}
	if images < ecomImagesMin {
		issues = append(issues, issue("ECOM_IMAGES", model.SeverityMedium,
			"Too few product images",
			fmt.Sprintf("Found %d images; product pages need at least %d.", images, ecomImagesMin)))
	}

	return issues
}

func checkSaaS(types map[string]bool, text string) []model.Issue {
	var issues []model.Issue

	if !types["SoftwareApplication"] && !types["WebApplication"] && !types["Service"] {
		issues = append(issues, issue("SAAS_SCHEMA", model.SeverityMedium,
			"Missing software structured data",
			"No SoftwareApplication, WebApplication, or Service JSON-LD block found."))
	}
	if !pricingRe.MatchString(text) {
		issues = append(issues, issue("SAAS_PRICING", model.SeverityMedium,
			"No pricing signal",
			"SaaS pages are expected to surface pricing or a free-tier signal."))
	}
	if !ctaRe.MatchString(text) {
		issues = append(issues, issue("SAAS_CTA", model.SeverityLow,
			"No signup call to action",
			"No signup, trial, or demo call to action found in the page text."))
	}

	return issues
}

func checkB2B(types map[string]bool, text string) []model.Issue {
	var issues []model.Issue

	if !types["Organization"] && !types["Corporation"] {
		issues = append(issues, issue("B2B_ORG_SCHEMA", model.SeverityMedium,
			"Missing Organization structured data",
			"No Organization-typed JSON-LD block found."))
	}
	if !caseStudyRe.MatchString(text) {
		issues = append(issues, issue("B2B_PROOF", model.SeverityLow,
			"No social proof",
			"No case studies, testimonials, or client references found."))
	}
	if !contactRe.MatchString(text) {
		issues = append(issues, issue("B2B_CONTACT", model.SeverityMedium,
			"No sales contact path",
			"No contact-sales, demo, or quote call to action found."))
	}

	return issues
}

func checkBlog(types map[string]bool, text string) []model.Issue {
	var issues []model.Issue

	if !types["Article"] && !types["BlogPosting"] && !types["NewsArticle"] {
		issues = append(issues, issue("BLOG_ARTICLE_SCHEMA", model.SeverityMedium,
			"Missing Article structured data",
			"No Article or BlogPosting JSON-LD block found."))
	}
	if !authorRe.MatchString(text) {
		issues = append(issues, issue("BLOG_AUTHOR", model.SeverityMedium,
			"No visible author",
			"The page shows no byline or author attribution."))
	}
	if !pubDateRe.MatchString(text) {
		issues = append(issues, issue("BLOG_DATE", model.SeverityMedium,
			"No visible publication date",
			"The page shows no publication or update date."))
	}
	if !taxonomyRe.MatchString(text) {
		issues = append(issues, issue("BLOG_TAXONOMY", model.SeverityLow,
			"No category or tag signals",
			"No categories, tags, or topic markers found."))
	}

	return issues
}

func checkLocalBusiness(doc *html.Node, types map[string]bool, text string) []model.Issue {
	var issues []model.Issue

	if !localBusinessSchema(types) {
		issues = append(issues, issue("LOCAL_SCHEMA", model.SeverityHigh,
			"Missing LocalBusiness structured data",
			"No LocalBusiness-typed JSON-LD block found."))
	}

	hasName := types["LocalBusiness"] || countTags(doc, "h1") > 0
	hasAddress := addressRe.MatchString(text) || countTags(doc, "address") > 0
	hasPhone := phoneRe.MatchString(text)
	if !hasName || !hasAddress || !hasPhone {
		issues = append(issues, issue("LOCAL_NAP", model.SeverityHigh,
			"Incomplete name/address/phone",
			fmt.Sprintf("NAP completeness failed: name=%t address=%t phone=%t.", hasName, hasAddress, hasPhone)))
	}

	if !locationRe.MatchString(text) && countTags(doc, "address") == 0 && !hasMapEmbed(doc) {
		issues = append(issues, issue("LOCAL_LOCATION", model.SeverityMedium,
			"No location signal",
			"No map embed, <address> element, or directions link found."))
	}
	if !serviceAreaRe.MatchString(text) {
		issues = append(issues, issue("LOCAL_SERVICE_AREA", model.SeverityLow,
			"No service-area signal",
			"The page does not state which areas the business serves."))
	}
	if !hoursRe.MatchString(text) {
		issues = append(issues, issue("LOCAL_HOURS", model.SeverityMedium,
			"No opening hours",
			"No opening hours found in the page text."))
	}

	return issues
}

func localBusinessSchema(types map[string]bool) bool {
	if types["LocalBusiness"] {
		return true
	}
	// Schema.org sub-types that signal a local business page.
	for _, t := range []string{"Restaurant", "Store", "Dentist", "Plumber", "Electrician", "MedicalBusiness", "AutoRepair"} {
		if types[t] {
			return true
		}
	}
	return false
}

// structuredDataTypes collects every @type value from ld+json blocks,
// parsing each block in turn; malformed JSON is skipped.
func structuredDataTypes(doc *html.Node) map[string]bool {
	types := map[string]bool{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" &&
			strings.EqualFold(attrVal(n, "type"), "application/ld+json") {
			if n.FirstChild != nil {
				var payload interface{}
				if err := json.Unmarshal([]byte(n.FirstChild.Data), &payload); err == nil {
					collectTypes(payload, types)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return types
}

func collectTypes(v interface{}, out map[string]bool) {
	switch val := v.(type) {
	case map[string]interface{}:
		if t, ok := val["@type"]; ok {
			switch tv := t.(type) {
			case string:
				out[tv] = true
			case []interface{}:
				for _, item := range tv {
					if s, ok := item.(string); ok {
						out[s] = true
					}
				}
			}
		}
		for _, child := range val {
			collectTypes(child, out)
		}
	case []interface{}:
		for _, item := range val {
			collectTypes(item, out)
		}
	}
}

func visibleText(doc *html.Node) string {
	var b strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return b.String()
}

func countTags(doc *html.Node, tag string) int {
	count := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return count
}

func hasMapEmbed(doc *html.Node) bool {
	found := false
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "iframe" {
			if strings.Contains(strings.ToLower(attrVal(n, "src")), "maps") {
				found = true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}
