package parallel

import (
	"context"
	"sync"
	"time"
)

// Result represents the outcome of one submitted unit of work.
type Result[T any] struct {
	ID       string
	Value    T
	Err      error
	Duration time.Duration
}

// Pool manages concurrent work with bounded concurrency. Failures are
// recorded per unit; they never cancel the remaining work.
type Pool[T any] struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	results   []Result[T]
	ctx       context.Context
}

// New creates a pool running at most maxWorkers units concurrently.
// If maxWorkers is 0 or negative, a single worker is used.
func New[T any](ctx context.Context, maxWorkers int) *Pool[T] {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Pool[T]{
		semaphore: make(chan struct{}, maxWorkers),
		ctx:       ctx,
	}
}

// Submit schedules fn for execution. If the pool is at capacity the worker
// goroutine blocks until a slot frees up or the context is cancelled.
func (p *Pool[T]) Submit(id string, fn func() (T, error)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.semaphore <- struct{}{}:
			defer func() { <-p.semaphore }()
		case <-p.ctx.Done():
			p.record(Result[T]{ID: id, Err: p.ctx.Err()})
			return
		}

		start := time.Now()
		value, err := fn()
		p.record(Result[T]{
			ID:       id,
			Value:    value,
			Err:      err,
			Duration: time.Since(start),
		})
	}()
}

// Wait blocks until all submitted work has finished and returns the results
// in completion order.
func (p *Pool[T]) Wait() []Result[T] {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result[T], len(p.results))
	copy(results, p.results)
	return results
}

func (p *Pool[T]) record(r Result[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, r)
}
