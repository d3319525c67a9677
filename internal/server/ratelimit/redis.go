package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/go-redis/redis/v8"
)

// counter is the subset of *redis.Client used by Redis.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Redis is a fixed-window counter shared by every server instance. The
// first hit of a window creates the key and sets its expiry.
type Redis struct {
	client counter
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedis(client counter, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: "ratelimit:generate:",
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *Redis) key(key string) string {
	bucket := r.now().UnixNano() / int64(r.window)
	return fmt.Sprintf("%s%s:%d", r.prefix, key, bucket)
}

// Allow fails closed: a Redis error is returned to the caller, not treated
// as an admission.
func (r *Redis) Allow(ctx context.Context, key string) error {
	k := r.key(key)

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: rate limiter: %v", common.ErrStoreUnavailable, err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", common.ErrStoreUnavailable, err)
		}
	}

	if n > r.limit {
		return common.ErrRateLimited
	}
	return nil
}
