// Package audit sequences the rule validators and the fact-validation
// pipeline over one piece of content and assembles the combined report.
package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/avetrov/contentaudit/internal/facts"
	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/rules"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Validator is one named rule check. All validators are pure functions
// over the input; they degrade to an empty result on missing input
// rather than erroring.
type Validator struct {
	Name  string
	Check func(model.AuditInput) []model.Issue
}

// DefaultValidators returns the full validator set in its fixed running
// order. Text checks run first, markup checks after, retrieval last.
func DefaultValidators() []Validator {
	return []Validator{
		{Name: "context-qualifiers", Check: rules.CheckContextQualifiers},
		{Name: "entity-placement", Check: rules.CheckEntityPlacement},
		{Name: "language", Check: rules.CheckLanguageRules},
		{Name: "filler", Check: rules.CheckFiller},
		{Name: "micro-semantics", Check: rules.CheckMicroSemantics},
		{Name: "readability", Check: rules.CheckReadability},
		{Name: "semantic-depth", Check: rules.CheckSemanticDepth},
		{Name: "html-nesting", Check: rules.CheckHTMLNesting},
		{Name: "content-structure", Check: rules.CheckContentStructure},
		{Name: "seo", Check: rules.CheckSEO},
		{Name: "internal-linking", Check: rules.CheckInternalLinking},
		{Name: "website-type", Check: rules.CheckWebsiteType},
		{Name: "retrieval-cost", Check: rules.CheckRetrievalCost},
	}
}

// Auditor runs validators and, optionally, the fact pipeline.
type Auditor struct {
	validators []Validator
	extractor  *facts.Extractor
	pipeline   *facts.Pipeline
	skipFacts  bool
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithValidators replaces the default validator set.
func WithValidators(v []Validator) Option {
	return func(a *Auditor) { a.validators = v }
}

// WithExtractor replaces the default claim extractor.
func WithExtractor(e *facts.Extractor) Option {
	return func(a *Auditor) { a.extractor = e }
}

// WithPipeline replaces the default (noop-verifier) fact pipeline.
func WithPipeline(p *facts.Pipeline) Option {
	return func(a *Auditor) { a.pipeline = p }
}

// WithoutFacts disables claim extraction and verification entirely.
func WithoutFacts() Option {
	return func(a *Auditor) { a.skipFacts = true }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

// WithLogger injects a structured logger. The auditor is silent without one.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Auditor) { a.log = log }
}

// New creates an auditor with the default validator set and a
// noop-verifier fact pipeline.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		validators: DefaultValidators(),
		extractor:  facts.NewExtractor(),
		pipeline:   facts.NewPipeline(nil),
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes every validator over the input, concatenates their
// findings in validator order, then extracts and verifies fact claims.
// It always returns a report; empty input yields an empty one.
func (a *Auditor) Run(ctx context.Context, subject string, in model.AuditInput) *model.Report {
	report := &model.Report{
		Subject:     subject,
		GeneratedAt: a.now(),
		WordCount:   textutil.WordCount(in.Text),
		Issues:      []model.Issue{},
	}

	for _, v := range a.validators {
		found := v.Check(in)
		if len(found) > 0 {
			a.log.Debug().Str("validator", v.Name).Int("issues", len(found)).Msg("validator finished")
		}
		report.Issues = append(report.Issues, found...)
	}

	if a.skipFacts || in.Text == "" {
		return report
	}

	claims := a.extractor.Extract(in.Text)
	if len(claims) == 0 {
		return report
	}

	a.log.Debug().Int("claims", len(claims)).Msg("verifying extracted claims")
	report.Claims = a.pipeline.VerifyAll(ctx, claims)

	return report
}
