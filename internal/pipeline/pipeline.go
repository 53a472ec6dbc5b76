package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/avetrov/contentaudit/internal/audit"
	"github.com/avetrov/contentaudit/internal/cache"
	"github.com/avetrov/contentaudit/internal/facts"
	"github.com/avetrov/contentaudit/internal/llm"
	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/util"
)

// Pipeline orchestrates the complete audit of one URL: fetch, analyze,
// validate, verify claims, render.
type Pipeline struct {
	fetcher  *Fetcher
	auditor  *audit.Auditor
	renderer *Renderer
	config   *model.Config
	log      zerolog.Logger
}

// NewPipeline assembles a pipeline from configuration. The claim
// verifier and cache come up according to config; a missing or
// misconfigured verifier degrades to no verification rather than
// failing assembly.
func NewPipeline(cfg *model.Config, log zerolog.Logger) *Pipeline {
	var fetcherOpts []FetcherOption
	if cfg.HTTP.RespectRobots {
		agent := util.NormalizeUserAgent(cfg.HTTP.UserAgent)
		fetcherOpts = append(fetcherOpts, WithRobots(util.NewRobotsChecker(agent, cfg.HTTP.Timeout)))
	}
	if cfg.HTTP.HTTPProxy != "" || cfg.HTTP.HTTPSProxy != "" {
		fetcherOpts = append(fetcherOpts, WithProxy(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy))
	}

	verifier, err := llm.New(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		log.Warn().Err(err).Msg("claim verifier unavailable, claims will not be verified")
		verifier = nil
	}

	pipelineOpts := []facts.PipelineOption{
		facts.WithWindow(cfg.Concurrency.VerificationWindow),
		facts.WithPipelineStaleness(cfg.Facts.StalenessYears),
		facts.WithLogger(log),
	}
	if cfg.Cache.Enabled {
		pipelineOpts = append(pipelineOpts, facts.WithCache(facts.NewStoreAdapter(newClaimStore(cfg.Cache), cfg.Cache.MemoryTTL)))
	}

	auditorOpts := []audit.Option{
		audit.WithExtractor(facts.NewExtractor(
			facts.WithStalenessYears(cfg.Facts.StalenessYears),
			facts.WithMaxClaims(cfg.Facts.MaxClaims),
		)),
		audit.WithPipeline(facts.NewPipeline(verifier, pipelineOpts...)),
		audit.WithLogger(log),
	}
	if !cfg.Facts.Enabled {
		auditorOpts = append(auditorOpts, audit.WithoutFacts())
	}
	auditor := audit.New(auditorOpts...)

	return &Pipeline{
		fetcher:  NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, fetcherOpts...),
		auditor:  auditor,
		renderer: NewRenderer(cfg.Output.Pretty),
		config:   cfg,
		log:      log,
	}
}

// newClaimStore picks the cache topology: layered when a disk directory
// is configured, memory-only otherwise.
func newClaimStore(cfg model.CacheConfig) cache.Cache {
	if cfg.Dir != "" {
		return cache.NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
	}
	return cache.NewMemoryCache(cfg.MemoryTTL, cfg.MemoryTTL)
}

// AuditURL fetches one URL and audits it.
func (p *Pipeline) AuditURL(ctx context.Context, url string, params PageParams) (*model.Report, error) {
	p.log.Debug().Str("url", url).Msg("fetching page")

	result, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	p.log.Debug().
		Str("url", result.FinalURL).
		Int("ttfb_ms", result.Metrics.TTFBMillis).
		Str("encoding", result.Metrics.ContentEncoding).
		Msg("page fetched")

	in := BuildInput(result.HTML, &result.Metrics, params)
	return p.auditor.Run(ctx, result.FinalURL, in), nil
}

// AuditContent audits already-loaded content: raw HTML, plain text, or
// both. No fetch metrics are available on this path.
func (p *Pipeline) AuditContent(ctx context.Context, subject, text, htmlContent string, params PageParams) *model.Report {
	var in model.AuditInput
	if htmlContent != "" {
		in = BuildInput(htmlContent, nil, params)
		if text != "" {
			in.Text = text
		}
	} else {
		in = model.AuditInput{
			Text:          text,
			Language:      params.Language,
			CentralEntity: params.CentralEntity,
			Attributes:    params.Attributes,
			Predicates:    params.Predicates,
			WebsiteType:   params.WebsiteType,
		}
	}

	return p.auditor.Run(ctx, subject, in)
}

// Render writes the report in the configured output format.
func (p *Pipeline) Render(w io.Writer, report *model.Report) error {
	return p.renderer.Render(w, report, p.config.Output.Format)
}
