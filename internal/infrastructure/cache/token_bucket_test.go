package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBucket(t *testing.T, capacity int) (*TokenBucket, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	b := NewTokenBucket(rdb, BucketConfig{
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		Prefix:         "rl:test",
	})
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, mr, &now
}

func TestTokenBucket_AgotaYRecarga(t *testing.T) {
	b, _, now := newBucket(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := b.Take(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "intento %d", i)
		assert.Equal(t, int64(2-i), d.Remaining)
	}

	d, err := b.Take(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Second, d.RetryAfter)

	*now = now.Add(1500 * time.Millisecond)
	d, err = b.Take(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "un token recargado tras un intervalo")
	assert.Equal(t, int64(0), d.Remaining)
}

func TestTokenBucket_ClavesIndependientes(t *testing.T) {
	b, mr, _ := newBucket(t, 1)
	ctx := context.Background()

	d, err := b.Take(ctx, "a")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	d, err = b.Take(ctx, "b")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	assert.True(t, mr.Exists("rl:test:a"))
	assert.Equal(t, time.Minute, mr.TTL("rl:test:a"))
}

func TestTokenBucket_RedisCaido(t *testing.T) {
	b, mr, _ := newBucket(t, 1)
	mr.Close()
	_, err := b.Take(context.Background(), "a")
	assert.Error(t, err)
}
