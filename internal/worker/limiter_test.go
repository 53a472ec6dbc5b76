package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow("https://example.com/page") {
			allowed++
		}
	}

	if allowed != 3 {
		t.Errorf("expected burst of 3 to be allowed, got %d", allowed)
	}
}

func TestLimiter_PerDomainIsolation(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://a.example.com/") {
		t.Error("first request to a.example.com should pass")
	}
	if l.Allow("https://a.example.com/") {
		t.Error("second immediate request to a.example.com should be limited")
	}
	if !l.Allow("https://b.example.com/") {
		t.Error("b.example.com has its own budget and should pass")
	}
}

func TestLimiter_SetDomainRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetDomainRate("slow.example.com", 0.001, 1)

	if !l.Allow("https://slow.example.com/") {
		t.Error("first request should consume the burst")
	}
	if l.Allow("https://slow.example.com/") {
		t.Error("second request should be limited at 0.001 rps")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)

	// Drain the burst.
	if err := l.Wait(context.Background(), "https://example.com/"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "https://example.com/"); err == nil {
		t.Error("expected a context error while waiting out the rate limit")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	l := NewLimiter(1, 1)

	if l.Allow("://not a url") {
		t.Error("invalid URLs should not be allowed")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 10)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "https://example.com/", 30*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("crawl delay not honored: waited %v", elapsed)
	}
}
