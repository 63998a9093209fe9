package grpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeerLimiter_BurstThenRefill(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newPeerLimiter(1, 3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))

	assert.True(t, l.Allow("10.0.0.2"), "peers have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestPeerLimiter_SweepsIdlePeers(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newPeerLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	assert.Len(t, l.peers, 2)

	now = now.Add(limiterIdleTTL + time.Minute)
	l.Allow("c")

	assert.Len(t, l.peers, 1)
	assert.Contains(t, l.peers, "c")
}

func TestPeerLimiter_MinimumBurst(t *testing.T) {
	l := newPeerLimiter(5, 0)
	assert.Equal(t, 1, l.burst)
}
