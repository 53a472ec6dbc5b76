// Package worker provides the bounded concurrency primitives for batch
// audits: a fixed-size worker pool and a per-domain rate limiter.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers. Completed results are
// accumulated internally, so any number of jobs can be submitted before
// Wait is called.
type Pool struct {
	workers    int
	jobQueue   chan Job
	collector  *ResultCollector
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool with the given worker count (minimum 1). Jobs
// execute under a context derived from ctx; cancelling it stops workers
// and abandons queued jobs.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		collector:  NewResultCollector(),
		ctx:        poolCtx,
		cancelFunc: cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.collector.Add(job.Execute(p.ctx))
		}
	}
}

// Submit queues a job. Blocks while the queue is full; submissions after
// Shutdown or context cancellation are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for every submitted job, and returns all
// results. Result order follows completion, not submission.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	return p.collector.Results()
}

// Shutdown stops the pool immediately, abandoning queued jobs.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}

func (p *Pool) closeQueue() {
	p.closeOnce.Do(func() {
		close(p.jobQueue)
	})
}

// ResultCollector accumulates results as workers finish.
type ResultCollector struct {
	results []Result
	mu      sync.Mutex
}

// NewResultCollector creates an empty collector.
func NewResultCollector() *ResultCollector {
	return &ResultCollector{results: make([]Result, 0)}
}

// Add appends a result. Safe for concurrent use.
func (c *ResultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns everything collected so far.
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
