// Package ratelimit caps how many plans a user may generate per window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"golang.org/x/time/rate"
)

// Limiter admits or rejects one unit of work for key. A rejection is
// reported as common.ErrRateLimited.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// Unlimited admits everything. It is used when the limit is zero.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) error { return nil }

// Memory is a per-process token bucket per key. Buckets refill evenly
// across the window and hold at most limit tokens. Once per window, buckets
// that have refilled completely are dropped; a new bucket starts full, so
// this is invisible to callers.
type Memory struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	every     rate.Limit
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
	now       func() time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:    limit,
		window:   window,
		every:    rate.Every(window / time.Duration(limit)),
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) error {
	now := m.now()

	m.mu.Lock()
	m.sweep(now)
	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.every, m.limit)
		m.limiters[key] = l
	}
	m.mu.Unlock()

	if !l.AllowN(now, 1) {
		return common.ErrRateLimited
	}
	return nil
}

// sweep must be called with mu held.
func (m *Memory) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	m.lastSweep = now

	for key, l := range m.limiters {
		if l.TokensAt(now) >= float64(m.limit) {
			delete(m.limiters, key)
		}
	}
}
