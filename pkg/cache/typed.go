package cache

import (
	"sync"
	"time"
)

type typedEntry[T any] struct {
	v   T
	exp time.Time
}

// Typed is a process-local TTL cache holding concrete values without
// serialization. Derived records (sentiment aggregates, scores, macro
// snapshots) are cached here so repeated reads within the TTL window return
// the identical value.
type Typed[T any] struct {
	mu sync.RWMutex
	m  map[string]typedEntry[T]
}

func NewTyped[T any]() *Typed[T] {
	return &Typed[T]{m: make(map[string]typedEntry[T])}
}

func (c *Typed[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return e.v, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	return e.v, true
}

func (c *Typed[T]) Set(key string, v T, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = typedEntry[T]{v: v, exp: exp}
	c.mu.Unlock()
}

func (c *Typed[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Values returns all live values. Expired entries are skipped, not purged.
func (c *Typed[T]) Values() []T {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.m))
	for _, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			continue
		}
		out = append(out, e.v)
	}
	return out
}

// Len reports the number of entries including expired ones not yet purged.
func (c *Typed[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
