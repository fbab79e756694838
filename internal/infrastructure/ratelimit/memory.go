// Package ratelimit holds the in-process attempt limiter used when a single
// API instance serves all traffic.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

// sweepEvery bounds how many hits pass between two sweeps of expired windows.
const sweepEvery = 1024

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window counter guarded by a mutex. Every hit
// counts, including successful ones.
type MemoryLimiter struct {
	mu      sync.Mutex
	max     int
	period  time.Duration
	windows map[string]*window
	hits    int
	now     func() time.Time
}

type Option func(*MemoryLimiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLimiter) { l.now = now }
}

func NewMemoryLimiter(max int, period time.Duration, opts ...Option) *MemoryLimiter {
	l := &MemoryLimiter{
		max:     max,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.AttemptLimiter = (*MemoryLimiter)(nil)

// Hit records one attempt for key. It never fails.
func (l *MemoryLimiter) Hit(_ context.Context, key string) (ports.Attempt, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.hits++
	if l.hits%sweepEvery == 0 {
		l.sweep(now)
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++

	remaining := l.max - w.count
	if remaining < 0 {
		remaining = 0
	}
	return ports.Attempt{
		Allowed:   w.count <= l.max,
		Count:     w.count,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}, nil
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}
