package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound requests per domain so a batch audit does
// not hammer one site.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter allowing requestsPerSecond per domain.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the URL's domain has rate-limit clearance.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return err
	}

	return l.getLimiter(domain).Wait(ctx)
}

// Allow reports whether a request may proceed right now, without waiting.
func (l *Limiter) Allow(rawURL string) bool {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return false
	}

	return l.getLimiter(domain).Allow()
}

func (l *Limiter) getLimiter(domain string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[domain]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[domain] = limiter

	return limiter
}

// SetDomainRate overrides the rate for one specific domain.
func (l *Limiter) SetDomainRate(domain string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[domain] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// WaitWithDelay waits for clearance plus an additional fixed delay, for
// sites whose robots.txt requests a crawl delay.
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}

func extractDomain(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
