package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/msomdec/usercrud/internal/service"
)

func newBucket(t *testing.T, rate, capacity float64) *service.TokenBucket {
	t.Helper()
	tb := service.NewTokenBucket(rate, capacity)
	t.Cleanup(tb.Close)
	return tb
}

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := newBucket(t, 1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow("test-key"), "request %d should be allowed", i+1)
	}
	assert.False(t, tb.Allow("test-key"), "4th request should be denied (bucket empty)")
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	tb := newBucket(t, 1, 1)

	assert.True(t, tb.Allow("ip-a"))
	assert.False(t, tb.Allow("ip-a"))
	assert.True(t, tb.Allow("ip-b"), "ip-b has its own bucket")
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	tb := newBucket(t, 0, 2)

	assert.True(t, tb.Allow("k"))
	assert.True(t, tb.Allow("k"))
	assert.False(t, tb.Allow("k"))
}

func TestTokenBucket_Refills(t *testing.T) {
	tb := newBucket(t, 2, 1)
	now := time.Unix(1000, 0)
	tb.SetClock(func() time.Time { return now })

	assert.True(t, tb.Allow("k"))
	assert.False(t, tb.Allow("k"))

	now = now.Add(500 * time.Millisecond)
	assert.True(t, tb.Allow("k"), "one token refilled after half a second at 2/s")
	assert.False(t, tb.Allow("k"))
}

func TestTokenBucket_EvictIdle(t *testing.T) {
	tb := newBucket(t, 1, 1)
	now := time.Unix(1000, 0)
	tb.SetClock(func() time.Time { return now })

	tb.Allow("old")
	now = now.Add(11 * time.Minute)
	tb.Allow("fresh")

	tb.EvictIdle(10 * time.Minute)
	assert.Equal(t, 1, tb.Len())
}

func TestTokenBucket_CloseIsIdempotent(t *testing.T) {
	tb := service.NewTokenBucket(1, 1)
	tb.Close()
	tb.Close()
}
