// Package pipeline wires fetching, input analysis, auditing, and report
// rendering into the flow the CLI drives.
package pipeline

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/util"
)

// Fetcher retrieves HTML pages and records the retrieval metrics the
// audit cares about: time to first byte and the content encoding the
// server chose.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithRobots makes the fetcher honor robots.txt before every request.
func WithRobots(r *util.RobotsChecker) FetcherOption {
	return func(f *Fetcher) { f.robots = r }
}

// WithProxy routes requests through the configured proxies.
func WithProxy(httpProxy, httpsProxy, noProxy string) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient.Transport.(*http.Transport).Proxy = util.NewProxyFunc(httpProxy, httpsProxy, noProxy)
	}
}

// NewFetcher creates a Fetcher with the given limits. Compression is
// negotiated manually so the Content-Encoding header stays observable;
// the transport would otherwise strip it while decompressing.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:              http.ProxyFromEnvironment,
				DisableCompression: true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchResult contains the fetched HTML and retrieval metadata.
type FetchResult struct {
	HTML       string
	FinalURL   string
	StatusCode int
	Metrics    model.FetchMetrics
}

// ErrRobotsDisallowed is returned when robots.txt forbids the fetch.
var ErrRobotsDisallowed = fmt.Errorf("robots.txt disallows fetching this URL")

// Fetch retrieves the page at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, _, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, ErrRobotsDisallowed
		}
	}

	var start time.Time
	var firstByte time.Duration
	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() {
			firstByte = time.Since(start)
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip")

	start = time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))

	var body io.Reader = io.LimitReader(resp.Body, f.maxBytes)
	if encoding == "gzip" {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("decompress body: %w", err)
		}
		defer func() { _ = gz.Close() }()
		body = gz
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:       string(content),
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Metrics: model.FetchMetrics{
			TTFBMillis:      int(firstByte.Milliseconds()),
			ContentEncoding: encoding,
		},
	}, nil
}
