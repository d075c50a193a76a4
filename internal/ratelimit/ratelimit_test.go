package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	limiter := New(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("client-a"), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow("client-a"), "request over burst")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter := New(1, 1)

	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	// A different key gets its own bucket.
	assert.True(t, limiter.Allow("client-b"))
}

func TestAllow_Concurrent(t *testing.T) {
	limiter := New(1000, 1000)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				limiter.Allow("shared")
				limiter.Allow("other")
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestEvictIdle_RemovesStaleKeys(t *testing.T) {
	limiter := New(1, 1)
	defer limiter.Stop()

	limiter.Allow("idle-client")
	limiter.Allow("idle-client") // exhaust the bucket

	// Nothing is stale yet.
	limiter.evictIdle(time.Now().Add(-time.Hour))
	limiter.mu.RLock()
	_, exists := limiter.limiters["idle-client"]
	limiter.mu.RUnlock()
	assert.True(t, exists, "fresh key must survive eviction")

	// With a cutoff in the future everything is stale.
	limiter.evictIdle(time.Now().Add(time.Hour))
	limiter.mu.RLock()
	assert.Empty(t, limiter.limiters)
	limiter.mu.RUnlock()

	// The evicted key comes back with a fresh bucket.
	assert.True(t, limiter.Allow("idle-client"))
}

func TestEvictIdle_KeepsActiveKeys(t *testing.T) {
	limiter := New(1, 1)
	defer limiter.Stop()

	limiter.Allow("stale")
	limiter.mu.RLock()
	limiter.limiters["stale"].lastSeen.Store(time.Now().Add(-time.Hour).UnixNano())
	limiter.mu.RUnlock()
	limiter.Allow("active")

	limiter.evictIdle(time.Now().Add(-maxIdleAge))

	limiter.mu.RLock()
	defer limiter.mu.RUnlock()
	_, staleExists := limiter.limiters["stale"]
	_, activeExists := limiter.limiters["active"]
	assert.False(t, staleExists)
	assert.True(t, activeExists)
}

func TestStop_Idempotent(t *testing.T) {
	limiter := New(1, 1)

	assert.NotPanics(t, func() {
		limiter.Stop()
		limiter.Stop()
	})

	// The limiter still works after Stop; only cleanup halts.
	assert.True(t, limiter.Allow("client-a"))
}
