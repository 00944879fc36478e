// Package ratelimit throttles delivery staff logins with a Redis fixed window.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "vendor-dashboard:login:"

// Limiter allows at most limit hits per key within each window. A nil
// Limiter, or one built without a client, allows everything.
type Limiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

func New(client redis.Cmdable, limit int, window time.Duration) *Limiter {
	if client == nil || limit <= 0 || window <= 0 {
		return nil
	}
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow counts one hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil {
		return true, nil
	}
	if key == "" {
		return false, errors.New("rate limiter key is empty")
	}

	k := keyPrefix + key
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		ttl = p.TTL(ctx, k)
		return nil
	}); err != nil {
		return false, fmt.Errorf("incrementing %s: %w", k, err)
	}
	// A window without a TTL would never close; repair it on any hit.
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("setting expiry on %s: %w", k, err)
		}
	}
	return incr.Val() <= int64(l.limit), nil
}

// Reset clears the window for key, used after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if l == nil || key == "" {
		return nil
	}
	return l.client.Del(ctx, keyPrefix+key).Err()
}
