package ratelimit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(0.001, 3)

	assert.True(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.1"))
	assert.False(t, krl.Allow("10.0.0.1"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(0.001, 1)

	assert.True(t, krl.Allow("10.0.0.1"))
	assert.False(t, krl.Allow("10.0.0.1"))

	// A different client IP has its own bucket.
	assert.True(t, krl.Allow("10.0.0.2"))
}

func TestAllow_ConcurrentAccess(t *testing.T) {
	krl := New(1000, 1000)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%5))
			for range 20 {
				krl.Allow(key)
			}
		}(i)
	}
	wg.Wait()
}
