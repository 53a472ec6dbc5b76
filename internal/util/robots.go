// Package util holds small shared helpers: robots.txt compliance and
// proxy resolution for outbound HTTP.
package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a URL may be fetched politely. Parsed
// robots.txt data is cached per host for the lifetime of the checker.
type RobotsChecker struct {
	cache      map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	httpClient *http.Client
	userAgent  string
}

// NewRobotsChecker creates a robots.txt checker for the given user agent.
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		cache: make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay the
// site requests. An unreachable robots.txt allows by default.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)

	data, err := r.getRobotsData(ctx, parsed.Host, robotsURL)
	if err != nil {
		return true, 0, nil
	}

	allowed := data.TestAgent(parsed.Path, r.userAgent)

	crawlDelay := time.Duration(0)
	if group := data.FindGroup(r.userAgent); group != nil {
		crawlDelay = group.CrawlDelay
	}

	return allowed, crawlDelay, nil
}

// IsAllowed is a convenience wrapper returning only the allowed status.
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) bool {
	allowed, _, _ := r.CanFetch(ctx, rawURL)
	return allowed
}

// getRobotsData fetches and caches robots.txt data for a host.
func (r *RobotsChecker) getRobotsData(ctx context.Context, host string, robotsURL string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, exists := r.cache[host]
	r.mu.RUnlock()

	if exists {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// A missing robots.txt allows everything.
	if resp.StatusCode == http.StatusNotFound {
		data, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
		r.cacheData(host, data)
		return data, nil
	}

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.cacheData(host, data)
	return data, nil
}

func (r *RobotsChecker) cacheData(host string, data *robotstxt.RobotsData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[host] = data
}

// Clear drops all cached robots.txt data.
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*robotstxt.RobotsData)
}

// NormalizeUserAgent reduces a full User-Agent string to the product
// token robots.txt groups match against.
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
