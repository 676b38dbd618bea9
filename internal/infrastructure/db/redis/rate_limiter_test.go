package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "login:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i+1)
	}

	d, err := limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.EqualValues(t, 3, d.Count)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	other, err := limiter.Allow(ctx, "login:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	mr, client := newTestClient(t)
	limiter := NewRateLimiter(client, 1, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "register:ip")
	require.NoError(t, err)
	d, _ := limiter.Allow(ctx, "register:ip")
	assert.False(t, d.Allowed)

	mr.FastForward(time.Minute + time.Second)

	d, err = limiter.Allow(ctx, "register:ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_DisabledLimit(t *testing.T) {
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client, 0, time.Minute)

	for i := 0; i < 5; i++ {
		d, err := limiter.Allow(context.Background(), "any")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
}
