// Package ratelimit provides per-client token-bucket rate limiters.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused client bucket is kept.
const DefaultIdleTTL = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter rate-limits requests per client key (remote address or token
// subject) using one token bucket per client.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry

	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewClientLimiter allows rps requests per second per client. The burst is
// rps rounded down, and at least one.
func NewClientLimiter(rps float64) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*clientEntry),
		rps:     rate.Limit(rps),
		burst:   max(int(rps), 1),
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	for key, e := range cl.clients {
		if now.Sub(e.lastSeen) > cl.idleTTL {
			delete(cl.clients, key)
		}
	}

	e, ok := cl.clients[client]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(cl.rps, cl.burst)}
		cl.clients[client] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Allow reports whether client may make a request now, consuming a token if so.
func (cl *ClientLimiter) Allow(client string) bool {
	return cl.limiterFor(client).AllowN(cl.now(), 1)
}

// Wait blocks until a token is available for client, or ctx is cancelled.
func (cl *ClientLimiter) Wait(ctx context.Context, client string) error {
	if err := cl.limiterFor(client).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", client, err)
	}
	return nil
}

// Clients returns the number of tracked client buckets.
func (cl *ClientLimiter) Clients() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}
