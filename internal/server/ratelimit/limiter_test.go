package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Allow(context.Background(), "u1"))
	}
}

func TestMemory_PerKeyAllowance(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(3, time.Hour)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Allow(ctx, "u1"))
	}
	assert.ErrorIs(t, m.Allow(ctx, "u1"), common.ErrRateLimited)

	// other users have their own bucket
	require.NoError(t, m.Allow(ctx, "u2"))

	// one token refills after window/limit
	now = now.Add(20 * time.Minute)
	require.NoError(t, m.Allow(ctx, "u1"))
	assert.ErrorIs(t, m.Allow(ctx, "u1"), common.ErrRateLimited)
}

func TestMemory_DropsIdleBuckets(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(2, time.Hour)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Allow(ctx, "idle"))
	require.NoError(t, m.Allow(ctx, "busy"))
	require.NoError(t, m.Allow(ctx, "busy"))
	assert.Len(t, m.limiters, 2)

	// idle has refilled after a window; busy is drained again just before the sweep
	now = now.Add(59 * time.Minute)
	require.NoError(t, m.Allow(ctx, "busy"))
	assert.ErrorIs(t, m.Allow(ctx, "busy"), common.ErrRateLimited)

	now = now.Add(time.Minute)
	_ = m.Allow(ctx, "busy")
	assert.Len(t, m.limiters, 1)
	assert.Contains(t, m.limiters, "busy")

	// a dropped key comes back with a full bucket
	require.NoError(t, m.Allow(ctx, "idle"))
	require.NoError(t, m.Allow(ctx, "idle"))
	assert.ErrorIs(t, m.Allow(ctx, "idle"), common.ErrRateLimited)
}

type fakeCounter struct {
	counts    map[string]int64
	expired   map[string]time.Duration
	incrErr   error
	expireErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expired: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.incrErr != nil {
		return redis.NewIntResult(0, f.incrErr)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if f.expireErr != nil {
		return redis.NewBoolResult(false, f.expireErr)
	}
	f.expired[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestRedis_FixedWindow(t *testing.T) {
	fc := newFakeCounter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRedis(fc, 2, time.Hour)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Allow(ctx, "u1"))
	require.NoError(t, r.Allow(ctx, "u1"))
	assert.ErrorIs(t, r.Allow(ctx, "u1"), common.ErrRateLimited)

	require.Len(t, fc.expired, 1)
	for _, ttl := range fc.expired {
		assert.Equal(t, time.Hour, ttl)
	}

	// next window starts a fresh counter
	now = now.Add(time.Hour)
	require.NoError(t, r.Allow(ctx, "u1"))
	assert.Len(t, fc.expired, 2)
}

func TestRedis_Errors(t *testing.T) {
	ctx := context.Background()

	fc := newFakeCounter()
	fc.incrErr = errors.New("connection refused")
	err := NewRedis(fc, 2, time.Hour).Allow(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	fc = newFakeCounter()
	fc.expireErr = errors.New("readonly")
	err = NewRedis(fc, 2, time.Hour).Allow(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "readonly")
	assert.Empty(t, fc.expired)
	for _, n := range fc.counts {
		assert.Equal(t, int64(1), n)
	}
}
