// Package ratelimit provides a keyed token-bucket rate limiter.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupInterval is how often the cleanup loop scans for idle keys.
	cleanupInterval = time.Minute
	// maxIdleAge is how long a key may go unused before its limiter is
	// evicted. An evicted key that returns simply gets a fresh bucket.
	maxIdleAge = 10 * time.Minute
)

// limiterEntry pairs a limiter with its last access time so idle keys can
// be evicted. lastSeen is atomic so the read fast path stays lock-light.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// KeyedRateLimiter hands out an independent token bucket per key,
// typically one per client IP. Idle keys are evicted in the background;
// call Stop when the limiter is no longer needed.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed rate limiter allowing rps requests per second with
// the given burst per key.
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go krl.cleanup()

	return krl
}

// Allow reports whether a request for the key should be admitted,
// without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the key is allowed or ctx is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now().UnixNano()

	krl.mu.RLock()
	entry, exists := krl.limiters[key]
	krl.mu.RUnlock()
	if exists {
		entry.lastSeen.Store(now)
		return entry.limiter
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Re-check after taking the write lock.
	if entry, exists = krl.limiters[key]; exists {
		entry.lastSeen.Store(now)
		return entry.limiter
	}

	entry = &limiterEntry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
	entry.lastSeen.Store(now)
	krl.limiters[key] = entry
	return entry.limiter
}

// cleanup periodically evicts limiters that have not been used for
// maxIdleAge, keeping the per-key map bounded under churning client IPs.
func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			krl.evictIdle(time.Now().Add(-maxIdleAge))
		}
	}
}

// evictIdle removes every key whose last access predates cutoff.
func (krl *KeyedRateLimiter) evictIdle(cutoff time.Time) {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	for key, entry := range krl.limiters {
		if entry.lastSeen.Load() < cutoff.UnixNano() {
			delete(krl.limiters, key)
		}
	}
}
