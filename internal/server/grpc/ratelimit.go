package grpc

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type peerEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// peerLimiter keeps one token bucket per client address. Idle buckets are
// swept lazily.
type peerLimiter struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	peers     map[string]*peerEntry
	lastSweep time.Time
	now       func() time.Time
}

func newPeerLimiter(rps float64, burst int) *peerLimiter {
	if burst < 1 {
		burst = 1
	}
	return &peerLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
		peers: make(map[string]*peerEntry),
		now:   time.Now,
	}
}

func (l *peerLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		l.sweep(now)
	}

	e, ok := l.peers[key]
	if !ok {
		e = &peerEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.peers[key] = e
	}
	e.lastAccess = now

	return e.limiter.AllowN(now, 1)
}

func (l *peerLimiter) sweep(now time.Time) {
	for k, e := range l.peers {
		if now.Sub(e.lastAccess) > limiterIdleTTL {
			delete(l.peers, k)
		}
	}
	l.lastSweep = now
}
