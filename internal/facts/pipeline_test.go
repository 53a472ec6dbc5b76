package facts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avetrov/contentaudit/internal/model"
)

// countingVerifier records every call and tracks the peak number of
// concurrent in-flight verifications.
type countingVerifier struct {
	mu       sync.Mutex
	calls    int
	inFlight int32
	peak     int32
	delay    time.Duration
	result   Verification
	err      error
}

func (v *countingVerifier) Verify(_ context.Context, _ string) (Verification, error) {
	cur := atomic.AddInt32(&v.inFlight, 1)
	for {
		peak := atomic.LoadInt32(&v.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&v.peak, peak, cur) {
			break
		}
	}
	if v.delay > 0 {
		time.Sleep(v.delay)
	}
	atomic.AddInt32(&v.inFlight, -1)

	v.mu.Lock()
	v.calls++
	v.mu.Unlock()

	return v.result, v.err
}

func (v *countingVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

// mapCache is an in-memory CacheAdapter with injectable failures.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]CachedResult
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]CachedResult{}}
}

func (c *mapCache) Get(_ context.Context, hash string) (*CachedResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	rec, ok := c.entries[hash]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (c *mapCache) Set(_ context.Context, hash string, rec CachedResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[hash] = rec
	return nil
}

func statClaim(id, text string) model.FactClaim {
	return model.FactClaim{
		ID:                 id,
		Text:               text,
		ClaimType:          model.ClaimTypeStatistic,
		Confidence:         0.8,
		VerificationStatus: model.StatusUnverified,
	}
}

func TestVerifyClaim_StaleStatisticShortCircuits(t *testing.T) {
	verifier := &countingVerifier{result: Verification{Status: model.StatusVerified}}
	cache := newMapCache()
	p := NewPipeline(verifier,
		WithCache(cache),
		WithPipelineClock(fixedClock(2026)),
	)

	claim := statClaim("claim-1", "In 2019, conversion rates averaged 2.3% across retail.")
	got := p.VerifyClaim(context.Background(), claim)

	if got.VerificationStatus != model.StatusOutdated {
		t.Errorf("expected outdated, got %s", got.VerificationStatus)
	}
	if got.Suggestion == "" {
		t.Error("outdated claims should carry a refresh suggestion")
	}
	if verifier.callCount() != 0 {
		t.Errorf("stale statistic must not reach the verifier, got %d calls", verifier.callCount())
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Errorf("stale statistic must not touch the cache, got %d gets, %d sets", cache.gets, cache.sets)
	}
}

func TestVerifyClaim_CacheHitSkipsVerifier(t *testing.T) {
	verifier := &countingVerifier{result: Verification{
		Status:  model.StatusVerified,
		Sources: []model.VerificationSource{{URL: "https://example.com/study", Title: "Study"}},
	}}
	p := NewPipeline(verifier,
		WithCache(newMapCache()),
		WithPipelineClock(fixedClock(2026)),
	)

	claim := statClaim("claim-1", "Mobile accounts for 62% of traffic in 2026 worldwide.")

	first := p.VerifyClaim(context.Background(), claim)
	if first.VerificationStatus != model.StatusVerified {
		t.Fatalf("expected verified, got %s", first.VerificationStatus)
	}
	if verifier.callCount() != 1 {
		t.Fatalf("expected 1 verifier call, got %d", verifier.callCount())
	}

	second := p.VerifyClaim(context.Background(), claim)
	if verifier.callCount() != 1 {
		t.Errorf("second call must be served from cache, got %d verifier calls", verifier.callCount())
	}
	if second.VerificationStatus != model.StatusVerified {
		t.Errorf("cached status lost, got %s", second.VerificationStatus)
	}
	if len(second.VerificationSources) != 1 || second.VerificationSources[0].URL != "https://example.com/study" {
		t.Errorf("cached sources lost, got %v", second.VerificationSources)
	}
}

func TestVerifyClaim_VerifierErrorDegrades(t *testing.T) {
	verifier := &countingVerifier{err: errors.New("provider unavailable")}
	p := NewPipeline(verifier, WithPipelineClock(fixedClock(2026)))

	claim := statClaim("claim-1", "Mobile accounts for 62% of traffic in 2026 worldwide.")
	got := p.VerifyClaim(context.Background(), claim)

	if got.VerificationStatus != model.StatusUnableToVerify {
		t.Errorf("expected unable_to_verify, got %s", got.VerificationStatus)
	}
	if got.Suggestion == "" {
		t.Error("failed verification should suggest a manual check")
	}
}

func TestVerifyClaim_CacheReadErrorIsMiss(t *testing.T) {
	verifier := &countingVerifier{result: Verification{Status: model.StatusVerified}}
	cache := newMapCache()
	cache.getErr = errors.New("disk unavailable")
	p := NewPipeline(verifier,
		WithCache(cache),
		WithPipelineClock(fixedClock(2026)),
	)

	claim := statClaim("claim-1", "Mobile accounts for 62% of traffic in 2026 worldwide.")
	got := p.VerifyClaim(context.Background(), claim)

	if got.VerificationStatus != model.StatusVerified {
		t.Errorf("a failed cache read must fall through to the verifier, got %s", got.VerificationStatus)
	}
	if verifier.callCount() != 1 {
		t.Errorf("expected 1 verifier call, got %d", verifier.callCount())
	}
}

func TestVerifyClaim_CacheWriteErrorSwallowed(t *testing.T) {
	verifier := &countingVerifier{result: Verification{Status: model.StatusVerified}}
	cache := newMapCache()
	cache.setErr = errors.New("disk full")
	p := NewPipeline(verifier,
		WithCache(cache),
		WithPipelineClock(fixedClock(2026)),
	)

	claim := statClaim("claim-1", "Mobile accounts for 62% of traffic in 2026 worldwide.")
	got := p.VerifyClaim(context.Background(), claim)

	if got.VerificationStatus != model.StatusVerified {
		t.Errorf("a failed cache write must not affect the result, got %s", got.VerificationStatus)
	}
	if cache.sets != 1 {
		t.Errorf("expected the write to be attempted once, got %d", cache.sets)
	}
}

func TestVerifyClaim_EmptyStatusBecomesUnverified(t *testing.T) {
	verifier := &countingVerifier{result: Verification{}}
	p := NewPipeline(verifier, WithPipelineClock(fixedClock(2026)))

	claim := statClaim("claim-1", "Mobile accounts for 62% of traffic in 2026 worldwide.")
	got := p.VerifyClaim(context.Background(), claim)

	if got.VerificationStatus != model.StatusUnverified {
		t.Errorf("expected unverified, got %s", got.VerificationStatus)
	}
}

func TestVerifyClaim_NilVerifierUsesNoop(t *testing.T) {
	p := NewPipeline(nil, WithPipelineClock(fixedClock(2026)))

	claim := statClaim("claim-1", "Mobile accounts for 62% of traffic in 2026 worldwide.")
	got := p.VerifyClaim(context.Background(), claim)

	if got.VerificationStatus != model.StatusUnableToVerify {
		t.Errorf("expected unable_to_verify from the noop verifier, got %s", got.VerificationStatus)
	}
}

func TestVerifyAll_WindowBoundsConcurrency(t *testing.T) {
	verifier := &countingVerifier{
		delay:  20 * time.Millisecond,
		result: Verification{Status: model.StatusVerified},
	}
	p := NewPipeline(verifier,
		WithWindow(3),
		WithPipelineClock(fixedClock(2026)),
	)

	claims := make([]model.FactClaim, 6)
	for i := range claims {
		claims[i] = statClaim(
			fmt.Sprintf("claim-%d", i+1),
			fmt.Sprintf("Metric number %d grew by %d%% in 2026 overall.", i+1, 10+i),
		)
	}

	results := p.VerifyAll(context.Background(), claims)

	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	if verifier.callCount() != 6 {
		t.Errorf("expected 6 verifier calls, got %d", verifier.callCount())
	}
	if peak := atomic.LoadInt32(&verifier.peak); peak > 3 {
		t.Errorf("window of 3 exceeded: peak concurrency %d", peak)
	}
	for i, r := range results {
		if want := fmt.Sprintf("claim-%d", i+1); r.ID != want {
			t.Errorf("result %d out of order: got %s, want %s", i, r.ID, want)
		}
		if r.VerificationStatus != model.StatusVerified {
			t.Errorf("claim %s not verified: %s", r.ID, r.VerificationStatus)
		}
	}
}

func TestVerifyAll_Empty(t *testing.T) {
	p := NewPipeline(nil)
	results := p.VerifyAll(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("expected an empty non-nil slice, got %v", results)
	}
}

func TestClaimHash_StableAndPrefixed(t *testing.T) {
	a := ClaimHash("some claim text")
	b := ClaimHash("some claim text")
	c := ClaimHash("other claim text")

	if a != b {
		t.Error("hash must be deterministic")
	}
	if a == c {
		t.Error("different texts must hash differently")
	}
	if len(a) <= len("claims:v1:") || a[:len("claims:v1:")] != "claims:v1:" {
		t.Errorf("unexpected hash format: %s", a)
	}
}
