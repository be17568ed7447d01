package queue

import (
	"context"
	"sync"
)

// Task is a unit of work executed by the pool.
type Task func(ctx context.Context) error

// Result captures the outcome of one task in a settle-all group.
type Result[T any] struct {
	Value T
	Err   error
}

// Settle runs producers with at most `concurrency` in flight and waits for
// all of them to finish, success or failure. Results come back in producer
// order so callers can combine the successes and inspect the failures.
func Settle[T any](ctx context.Context, concurrency int, producers []func(ctx context.Context) (T, error)) []Result[T] {
	if concurrency <= 0 {
		concurrency = len(producers)
	}

	results := make([]Result[T], len(producers))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, p := range producers {
		wg.Add(1)
		go func(i int, p func(ctx context.Context) (T, error)) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = Result[T]{Err: err}
				return
			}
			v, err := p(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}(i, p)
	}

	wg.Wait()
	return results
}

// Pool is a fixed-size worker pool for fire-and-forget tasks.
type Pool struct {
	tasks  chan Task
	wg     sync.WaitGroup
	cancel context.CancelFunc
	once   sync.Once
}

// NewPool starts `workers` goroutines draining the task queue.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan Task, queueSize),
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	return p
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			_ = t(ctx)
		}
	}
}

// Submit enqueues a task, reporting false when the queue is full.
func (p *Pool) Submit(t Task) bool {
	select {
	case p.tasks <- t:
		return true
	default:
		return false
	}
}

// Close stops workers after the queue drains.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.tasks)
		p.wg.Wait()
		p.cancel()
	})
}
