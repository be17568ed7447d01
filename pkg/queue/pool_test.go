package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSettleCombinesSuccessAndFailure(t *testing.T) {
	producers := []func(ctx context.Context) (int, error){
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, errors.New("boom") },
		func(ctx context.Context) (int, error) { return 3, nil },
	}

	results := Settle(context.Background(), 2, producers)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[0].Value != 1 {
		t.Fatalf("unexpected result[0]: %+v", results[0])
	}
	if results[1].Err == nil {
		t.Fatalf("expected error in result[1]")
	}
	if results[2].Err != nil || results[2].Value != 3 {
		t.Fatalf("unexpected result[2]: %+v", results[2])
	}
}

func TestSettleBoundsConcurrency(t *testing.T) {
	var inFlight, peak int64
	var mu sync.Mutex

	producers := make([]func(ctx context.Context) (struct{}, error), 10)
	for i := range producers {
		producers[i] = func(ctx context.Context) (struct{}, error) {
			cur := atomic.AddInt64(&inFlight, 1)
			mu.Lock()
			if cur > peak {
				peak = cur
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return struct{}{}, nil
		}
	}

	Settle(context.Background(), 3, producers)

	mu.Lock()
	defer mu.Unlock()
	if peak > 3 {
		t.Fatalf("concurrency bound exceeded: peak=%d", peak)
	}
}

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(2, 16)
	var n int64
	for i := 0; i < 8; i++ {
		ok := p.Submit(func(ctx context.Context) error {
			atomic.AddInt64(&n, 1)
			return nil
		})
		if !ok {
			t.Fatalf("submit %d rejected", i)
		}
	}
	p.Close()
	if got := atomic.LoadInt64(&n); got != 8 {
		t.Fatalf("expected 8 executed tasks, got %d", got)
	}
}
