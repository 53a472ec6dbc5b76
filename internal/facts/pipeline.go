package facts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avetrov/contentaudit/internal/model"
)

// DefaultWindow is how many claims verify concurrently per batch window.
const DefaultWindow = 3

// Pipeline verifies extracted claims through a pluggable verifier with an
// optional cache in front. All failure modes degrade: a verifier error
// becomes unable_to_verify, a cache read error behaves as a miss, and a
// cache write error is swallowed.
type Pipeline struct {
	verifier       Verifier
	cache          CacheAdapter
	window         int
	stalenessYears int
	now            func() time.Time
	log            zerolog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithCache attaches a cache adapter. Without one, caching is disabled
// with no other behavior change.
func WithCache(c CacheAdapter) PipelineOption {
	return func(p *Pipeline) { p.cache = c }
}

// WithWindow sets the verification window size (concurrent verifications
// per batch step).
func WithWindow(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.window = n
		}
	}
}

// WithPipelineStaleness overrides the outdated-statistic horizon.
func WithPipelineStaleness(years int) PipelineOption {
	return func(p *Pipeline) { p.stalenessYears = years }
}

// WithPipelineClock injects the time source, for tests.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger injects a structured logger. The pipeline is silent without one.
func WithLogger(log zerolog.Logger) PipelineOption {
	return func(p *Pipeline) { p.log = log }
}

// NewPipeline creates a verification pipeline around the given verifier.
// A nil verifier falls back to NoopVerifier.
func NewPipeline(verifier Verifier, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		verifier:       verifier,
		window:         DefaultWindow,
		stalenessYears: DefaultStalenessYears,
		now:            time.Now,
		log:            zerolog.Nop(),
	}
	if p.verifier == nil {
		p.verifier = NoopVerifier{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// VerifyClaim resolves a single claim. Outdated statistics short-circuit
// before any cache or verifier call; otherwise the cache is consulted,
// then the verifier, and the result is written back best-effort.
func (p *Pipeline) VerifyClaim(ctx context.Context, claim model.FactClaim) model.FactClaim {
	if claim.ClaimType == model.ClaimTypeStatistic {
		if year, stale := staleYear(claim.Text, p.now().Year(), p.stalenessYears); stale {
			claim.VerificationStatus = model.StatusOutdated
			claim.Suggestion = fmt.Sprintf("The statistic references %d; find a figure from the last %d years.", year, p.stalenessYears)
			return claim
		}
	}

	hash := ClaimHash(claim.Text)

	if p.cache != nil {
		rec, err := p.cache.Get(ctx, hash)
		if err != nil {
			// A failed read is a miss.
			p.log.Debug().Err(err).Str("hash", hash).Msg("claim cache read failed")
		} else if rec != nil {
			claim.VerificationStatus = rec.Status
			claim.VerificationSources = rec.Sources
			claim.Suggestion = rec.Suggestion
			return claim
		}
	}

	result, err := p.verifier.Verify(ctx, claim.Text)
	if err != nil {
		p.log.Debug().Err(err).Str("claim", claim.ID).Msg("verifier failed")
		claim.VerificationStatus = model.StatusUnableToVerify
		claim.Suggestion = "Verification failed; check this claim manually."
		return claim
	}

	claim.VerificationStatus = result.Status
	claim.VerificationSources = result.Sources
	claim.Suggestion = result.Suggestion
	if claim.VerificationStatus == "" {
		claim.VerificationStatus = model.StatusUnverified
	}

	if p.cache != nil {
		rec := CachedResult{
			Text:       claim.Text,
			Status:     claim.VerificationStatus,
			Sources:    claim.VerificationSources,
			Suggestion: claim.Suggestion,
		}
		if err := p.cache.Set(ctx, hash, rec); err != nil {
			// Cache writes are best-effort.
			p.log.Debug().Err(err).Str("hash", hash).Msg("claim cache write failed")
		}
	}

	return claim
}

// VerifyAll verifies claims in fixed-size windows: every claim in a window
// runs concurrently and the window is fully awaited before the next one
// starts, bounding in-flight verifications to the window size. The result
// slice matches the input order one-to-one.
func (p *Pipeline) VerifyAll(ctx context.Context, claims []model.FactClaim) []model.FactClaim {
	if len(claims) == 0 {
		return []model.FactClaim{}
	}

	results := make([]model.FactClaim, len(claims))

	for start := 0; start < len(claims); start += p.window {
		end := start + p.window
		if end > len(claims) {
			end = len(claims)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = p.VerifyClaim(ctx, claims[idx])
			}(i)
		}
		wg.Wait()
	}

	return results
}
