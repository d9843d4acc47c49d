package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLimiter_Wait(t *testing.T) {
	cl := NewClientLimiter(100)

	// Should not block at high rate.
	err := cl.Wait(context.Background(), "10.0.0.1")
	require.NoError(t, err)
}

func TestClientLimiter_AllowExhaustsBurst(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cl := NewClientLimiter(2)
	cl.now = func() time.Time { return now }

	assert.True(t, cl.Allow("a"))
	assert.True(t, cl.Allow("a"))
	assert.False(t, cl.Allow("a"), "burst of 2 is exhausted")

	// Other clients have their own bucket.
	assert.True(t, cl.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, cl.Allow("a"), "tokens refill over time")
}

func TestClientLimiter_FractionalRateHasBurstOne(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cl := NewClientLimiter(0.5)
	cl.now = func() time.Time { return now }

	assert.True(t, cl.Allow("a"))
	assert.False(t, cl.Allow("a"))
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cl := NewClientLimiter(1)
	cl.now = func() time.Time { return now }

	cl.Allow("a")
	cl.Allow("b")
	assert.Equal(t, 2, cl.Clients())

	now = now.Add(DefaultIdleTTL + time.Second)
	cl.Allow("c")
	assert.Equal(t, 1, cl.Clients())
}

func TestClientLimiter_CancelledContext(t *testing.T) {
	// Create a very restrictive limiter.
	cl := NewClientLimiter(0.001)

	// Consume the burst.
	_ = cl.Wait(context.Background(), "a")

	// Next call with cancelled context should error.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := cl.Wait(ctx, "a")
	assert.Error(t, err)
}
