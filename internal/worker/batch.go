package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/pipeline"
)

// Auditor audits a single URL. Satisfied by pipeline.Pipeline.
type Auditor interface {
	AuditURL(ctx context.Context, url string, params pipeline.PageParams) (*model.Report, error)
}

// AuditJob audits one URL, waiting for per-domain rate clearance first.
type AuditJob struct {
	URL     string
	Params  pipeline.PageParams
	Auditor Auditor
	Limiter *Limiter
}

// Execute runs the audit job.
func (j *AuditJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.URL); err != nil {
			return &AuditResult{URL: j.URL, Error: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	report, err := j.Auditor.AuditURL(ctx, j.URL, j.Params)
	if err != nil {
		return &AuditResult{URL: j.URL, Error: err}
	}
	return &AuditResult{URL: j.URL, Report: report}
}

// AuditResult is the outcome of one batch entry.
type AuditResult struct {
	URL    string
	Report *model.Report
	Error  error
}

// GetError returns the error from the audit, if any.
func (r *AuditResult) GetError() error {
	return r.Error
}

// BatchProcessor audits many URLs concurrently on a bounded pool.
type BatchProcessor struct {
	auditor     Auditor
	limiter     *Limiter
	concurrency int
}

// NewBatchProcessor creates a batch processor. A nil limiter disables
// per-domain rate limiting.
func NewBatchProcessor(auditor Auditor, limiter *Limiter, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		auditor:     auditor,
		limiter:     limiter,
		concurrency: concurrency,
	}
}

// ProcessURLs audits the URLs concurrently. Result order follows
// completion; each result carries its URL. Cancelling ctx stops
// in-flight audits and abandons queued URLs.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string, params pipeline.PageParams) []*AuditResult {
	if len(urls) == 0 {
		return []*AuditResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, url := range urls {
		pool.Submit(&AuditJob{
			URL:     url,
			Params:  params,
			Auditor: b.auditor,
			Limiter: b.limiter,
		})
	}

	results := pool.Wait()

	auditResults := make([]*AuditResult, len(results))
	for i, result := range results {
		auditResults[i] = result.(*AuditResult)
	}

	return auditResults
}

// ProcessFile reads URLs from a file and audits them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, params pipeline.PageParams) ([]*AuditResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls, params), nil
}

// ReadURLsFromFile reads URLs from a file, one per line. Blank lines and
// #-comments are skipped and duplicates dropped.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
