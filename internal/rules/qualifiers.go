package rules

import (
	"fmt"
	"regexp"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// qualifierRule pairs a trigger pattern with the qualifier pattern that
// excuses it. A sentence matching the trigger without the qualifier counts
// as unqualified; the rule fires once the unqualified count exceeds the
// threshold.
type qualifierRule struct {
	id        string
	title     string
	severity  model.Severity
	threshold int
	trigger   *regexp.Regexp
	qualifier *regexp.Regexp
	fix       string
}

var qualifierRules = []qualifierRule{
	{
		id:        "QUAL_TEMPORAL",
		title:     "Statistics without temporal context",
		severity:  model.SeverityMedium,
		threshold: 3,
		trigger:   regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(%|percent)|\b\d{1,3}(,\d{3})+\b|\b(million|billion|trillion)\b`),
		qualifier: regexp.MustCompile(`(?i)\b(19|20)\d{2}\b|\bas of\b|\bcurrently\b|\btoday\b|\bthis (year|month|quarter)\b|\blast (year|month|quarter)\b`),
		fix:       `"conversion rates improved 25%" -> "conversion rates improved 25% in 2025"`,
	},
	{
		id:        "QUAL_SPATIAL",
		title:     "Market claims without geographic scope",
		severity:  model.SeverityMedium,
		threshold: 3,
		trigger:   regexp.MustCompile(`(?i)\b(average|market|price|prices|cost|costs|rate|rates|salary|salaries|demand|consumers?)\b`),
		qualifier: regexp.MustCompile(`(?i)\b(in|across|throughout)\s+(the\s+)?[A-Z][a-z]+|\b(globally|worldwide|nationwide|locally|in the US|in Europe|in Asia|regional)\b`),
		fix:       `"the average price is $40" -> "the average price in the US is $40"`,
	},
	{
		id:        "QUAL_CONDITIONAL",
		title:     "Recommendations without conditions",
		severity:  model.SeverityMedium,
		threshold: 2,
		trigger:   regexp.MustCompile(`(?i)\b(should|must|need to|have to|always works|best way|recommended)\b`),
		qualifier: regexp.MustCompile(`(?i)\b(if|when|unless|depending on|in case|for cases where|provided that|as long as)\b`),
		fix:       `"you should migrate" -> "if your traffic exceeds the free tier, you should migrate"`,
	},
	{
		id:        "QUAL_ATTRIBUTION",
		title:     "Research claims without attribution",
		severity:  model.SeverityHigh,
		threshold: 3,
		trigger:   regexp.MustCompile(`(?i)\b(stud(y|ies) (show|shows|found)|research (shows|indicates|suggests)|survey(s)? (show|found)|data (shows|indicates)|experts (say|agree))\b`),
		qualifier: regexp.MustCompile(`(?i)\baccording to\b|\bby [A-Z][a-z]+|\bet al\b|\bpublished (in|by)\b|\bsource:\b|\((19|20)\d{2}\)`),
		fix:       `"studies show higher engagement" -> "a 2024 Nielsen study shows higher engagement"`,
	},
	{
		id:        "QUAL_COMPARATIVE",
		title:     "Comparatives without a comparison target",
		severity:  model.SeverityMedium,
		threshold: 2,
		trigger:   regexp.MustCompile(`(?i)\b(better|faster|cheaper|easier|stronger|slower|more (effective|efficient|reliable|accurate|affordable)|less (expensive|complex))\b`),
		qualifier: regexp.MustCompile(`(?i)\bthan\b|\bcompared (to|with)\b|\bversus\b|\bvs\.?\b|\brelative to\b`),
		fix:       `"our tool is faster" -> "our tool is faster than manual review"`,
	},
	{
		id:        "QUAL_AUDIENCE",
		title:     "Advice without a stated audience",
		severity:  model.SeverityLow,
		threshold: 2,
		trigger:   regexp.MustCompile(`(?i)\b(ideal|perfect|best (choice|option|tool|solution)|you should|great (choice|option|fit))\b`),
		qualifier: regexp.MustCompile(`(?i)\bfor (beginners|professionals|enterprises|startups|developers|marketers|agencies|small business|teams|freelancers)\b|\bif you( are|'re)\b`),
		fix:       `"this is the best option" -> "this is the best option for small agencies"`,
	},
	{
		id:        "QUAL_VERSION",
		title:     "Product capabilities without version context",
		severity:  model.SeverityLow,
		threshold: 2,
		trigger:   regexp.MustCompile(`(?i)\b(supports?|feature|features|integrat(es|ion)|compatible|api|plugin)\b`),
		qualifier: regexp.MustCompile(`(?i)\bv\d+(\.\d+)*\b|\bversion \d+|\bsince (version|release)\b|\bas of (version|release)\b|\bin the latest (version|release)\b`),
		fix:       `"the plugin supports webhooks" -> "the plugin supports webhooks since v2.3"`,
	},
	{
		id:        "QUAL_METHODOLOGY",
		title:     "Measurements without methodology",
		severity:  model.SeverityMedium,
		threshold: 2,
		trigger:   regexp.MustCompile(`(?i)\b(we (measured|tested|benchmarked|surveyed)|benchmark(s|ed)?|respondents|tested \d+)\b`),
		qualifier: regexp.MustCompile(`(?i)\bsample\b|\bn\s*=\s*\d+|\bparticipants\b|\bmethodology\b|\bover a (period|span) of\b|\bacross \d+\b`),
		fix:       `"we surveyed marketers" -> "we surveyed 412 marketers across 12 industries"`,
	},
}

var (
	strongAssertionRe = regexp.MustCompile(`(?i)\b(definitely|certainly|always|never|guaranteed|undoubtedly|unquestionably|proven|without (a )?doubt|absolutely)\b`)
	hedgeRe           = regexp.MustCompile(`(?i)\b(may|might|could|often|typically|generally|usually|likely|suggests?|tends? to|in most cases)\b`)
)

// Certainty-rule constants: fires when strong assertions exceed the floor
// and outnumber hedges more than 4:1.
const (
	certaintyFloor = 4
	certaintyRatio = 4
)

// CheckContextQualifiers runs the nine context-qualifier checks over the
// plain text of in and returns one issue per rule whose unqualified count
// exceeds its threshold.
func CheckContextQualifiers(in model.AuditInput) []model.Issue {
	sentences := textutil.SplitSentences(in.Text)
	if len(sentences) == 0 {
		return nil
	}

	var issues []model.Issue

	for _, rule := range qualifierRules {
		unqualified := 0
		first := ""
		for _, s := range sentences {
			if rule.trigger.MatchString(s) && !rule.qualifier.MatchString(s) {
				unqualified++
				if first == "" {
					first = s
				}
			}
		}
		if unqualified > rule.threshold {
			issues = append(issues, model.Issue{
				RuleID:   rule.id,
				Severity: rule.severity,
				Title:    rule.title,
				Description: fmt.Sprintf("%d sentences match the %s trigger without a qualifier (threshold %d).",
					unqualified, rule.id, rule.threshold),
				AffectedElement: model.Excerpt(first),
				ExampleFix:      rule.fix,
			})
		}
	}

	// Certainty check: strong assertion language vs hedging language.
	strong := 0
	hedges := 0
	firstStrong := ""
	for _, s := range sentences {
		strong += len(strongAssertionRe.FindAllString(s, -1))
		hedges += len(hedgeRe.FindAllString(s, -1))
		if firstStrong == "" && strongAssertionRe.MatchString(s) {
			firstStrong = s
		}
	}
	if strong > certaintyFloor && strong > certaintyRatio*hedges {
		issues = append(issues, model.Issue{
			RuleID:   "QUAL_CERTAINTY",
			Severity: model.SeverityMedium,
			Title:    "Overconfident assertion language",
			Description: fmt.Sprintf("%d strong assertions against %d hedges; strong language outnumbers hedging more than %d:1.",
				strong, hedges, certaintyRatio),
			AffectedElement: model.Excerpt(firstStrong),
			ExampleFix:      `"this always increases traffic" -> "this typically increases traffic"`,
		})
	}

	return issues
}
