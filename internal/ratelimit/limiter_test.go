package ratelimit

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLimiterAllows(t *testing.T) {
	l := New(nil, 5, time.Minute)
	require.Nil(t, l)

	ok, err := l.Allow(context.Background(), "+911234567890")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, l.Reset(context.Background(), "+911234567890"))
}

func TestAllowReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := New(client, 5, time.Minute)
	require.NotNil(t, l)

	ok, err := l.Allow(context.Background(), "+911234567890")
	assert.Error(t, err)
	assert.False(t, ok)

	_, err = l.Allow(context.Background(), "")
	assert.Error(t, err)
}

func TestNewRejectsBadSettings(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	assert.Nil(t, New(client, 0, time.Minute))
	assert.Nil(t, New(client, 5, 0))
}

func liveClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestAllowCountsWithinWindow(t *testing.T) {
	client := liveClient(t)
	ctx := context.Background()
	key := fmt.Sprintf("+91%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = client.Del(ctx, keyPrefix+key).Err() })

	l := New(client, 2, time.Minute)
	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Reset(ctx, key))
	ok, err = l.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllowRestoresMissingExpiry(t *testing.T) {
	client := liveClient(t)
	ctx := context.Background()
	key := fmt.Sprintf("+91%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = client.Del(ctx, keyPrefix+key).Err() })

	// a window whose EXPIRE never landed
	require.NoError(t, client.Set(ctx, keyPrefix+key, 7, 0).Err())

	l := New(client, 5, time.Minute)
	ok, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
