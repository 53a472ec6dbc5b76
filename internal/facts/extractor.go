package facts

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Sentences shorter than this are discarded before classification.
const minClaimLength = 15

// Default staleness horizon: a statistic referencing a year more than this
// many years back is considered outdated.
const DefaultStalenessYears = 2

// Confidence lowered onto statistics that also look outdated.
const staleConfidence = 0.5

// claimClassifier binds one claim type to its trigger pattern. Classifiers
// are evaluated in a fixed order and the first match wins, which keeps the
// type precedence auditable: statistic > date > attribution > comparison.
type claimClassifier struct {
	claimType  model.ClaimType
	pattern    *regexp.Regexp
	confidence float64
}

var claimClassifiers = []claimClassifier{
	{
		claimType:  model.ClaimTypeStatistic,
		pattern:    regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(%|percent)|\b\d{1,3}(,\d{3})+\b|\b\d+(\.\d+)?\s+(million|billion|trillion)\b`),
		confidence: 0.8,
	},
	{
		claimType:  model.ClaimTypeDate,
		pattern:    regexp.MustCompile(`(?i)\b(19|20)\d{2}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`),
		confidence: 0.75,
	},
	{
		claimType:  model.ClaimTypeAttribution,
		pattern:    regexp.MustCompile(`(?i)\b(according to|study by|research (by|from|at)|reported by|survey (by|from)|as stated (by|in)|cited by)\b`),
		confidence: 0.7,
	},
	{
		claimType:  model.ClaimTypeComparison,
		pattern:    regexp.MustCompile(`(?i)\b(the (most|least|best|worst|fastest|slowest|largest|smallest|highest|lowest)|twice as|half as|\d+(\.\d+)?x (more|less|faster|slower)|\d+ times (more|less|higher|lower|faster))\b`),
		confidence: 0.6,
	},
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Extractor pulls verifiable claims out of free text.
type Extractor struct {
	stalenessYears int
	maxClaims      int
	now            func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithStalenessYears overrides how old a referenced year must be before a
// statistic counts as outdated.
func WithStalenessYears(years int) ExtractorOption {
	return func(e *Extractor) { e.stalenessYears = years }
}

// WithMaxClaims caps how many claims Extract returns (0 = unlimited).
func WithMaxClaims(n int) ExtractorOption {
	return func(e *Extractor) { e.maxClaims = n }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates a claim extractor with default settings.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		stalenessYears: DefaultStalenessYears,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract splits content into sentences and classifies each one by the
// fixed classifier order. Unmatched sentences produce no claim.
func (e *Extractor) Extract(text string) []model.FactClaim {
	sentences := textutil.SplitSentences(text)

	var claims []model.FactClaim
	for _, sentence := range sentences {
		if len(sentence) < minClaimLength {
			continue
		}

		for _, c := range claimClassifiers {
			if !c.pattern.MatchString(sentence) {
				continue
			}

			confidence := c.confidence
			if c.claimType == model.ClaimTypeStatistic && e.isStale(sentence) {
				confidence = staleConfidence
			}

			claims = append(claims, model.FactClaim{
				ID:                 fmt.Sprintf("claim-%d", len(claims)+1),
				Text:               sentence,
				ClaimType:          c.claimType,
				Confidence:         confidence,
				VerificationStatus: model.StatusUnverified,
			})
			break
		}

		if e.maxClaims > 0 && len(claims) >= e.maxClaims {
			break
		}
	}

	return claims
}

// isStale reports whether the sentence references a year more than the
// staleness horizon before the current year.
func (e *Extractor) isStale(sentence string) bool {
	_, stale := staleYear(sentence, e.now().Year(), e.stalenessYears)
	return stale
}

// staleYear returns the oldest referenced year and whether it falls more
// than horizon years before currentYear.
func staleYear(text string, currentYear, horizon int) (int, bool) {
	matches := yearRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, false
	}

	oldest := 0
	for _, m := range matches {
		year, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if oldest == 0 || year < oldest {
			oldest = year
		}
	}

	return oldest, oldest > 0 && currentYear-oldest > horizon
}
