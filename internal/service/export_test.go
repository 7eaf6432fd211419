package service

import "time"

// SetClock replaces the time source used by Allow and eviction.
func (tb *TokenBucket) SetClock(now func() time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.now = now
}

// EvictIdle runs one janitor pass.
func (tb *TokenBucket) EvictIdle(idle time.Duration) {
	tb.evictIdle(idle)
}

// Len returns the number of tracked keys.
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.buckets)
}
