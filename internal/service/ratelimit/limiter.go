package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per provider key so each external API's
// request budget is enforced independently of scheduler pacing.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
}

func New() *Limiter { return &Limiter{m: make(map[string]*rate.Limiter)} }

func (l *Limiter) bucket(key string, perSec float64, burst int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.m[key]
	if !ok {
		if perSec <= 0 {
			perSec = 1
		}
		if burst <= 0 {
			burst = 1
		}
		b = rate.NewLimiter(rate.Limit(perSec), burst)
		l.m[key] = b
	}
	return b
}

// Wait blocks until one token is available for key or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string, perSec float64, burst int) error {
	return l.bucket(key, perSec, burst).Wait(ctx)
}

// Allow reports whether one token can be consumed for key right now.
func (l *Limiter) Allow(key string, perSec float64, burst int) bool {
	return l.bucket(key, perSec, burst).Allow()
}
