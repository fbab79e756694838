package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newLimiter() (*MemoryLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	return NewMemoryLimiter(5, 15*time.Minute, WithClock(clock.Now)), clock
}

func TestMemoryLimiter_SixthAttemptRefused(t *testing.T) {
	l, clock := newLimiter()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		a, err := l.Hit(ctx, "1.2.3.4|jane@x.com")
		require.NoError(t, err)
		assert.True(t, a.Allowed, "attempt %d", i)
		assert.Equal(t, 5-i, a.Remaining)
		clock.Advance(time.Minute)
	}

	a, _ := l.Hit(ctx, "1.2.3.4|jane@x.com")
	assert.False(t, a.Allowed)
	assert.Equal(t, 6, a.Count)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), a.ResetAt)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newLimiter()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, _ = l.Hit(ctx, "1.2.3.4|jane@x.com")
	}
	a, _ := l.Hit(ctx, "1.2.3.4|bob@x.com")
	assert.True(t, a.Allowed)
	assert.Equal(t, 1, a.Count)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l, clock := newLimiter()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, _ = l.Hit(ctx, "k")
	}
	clock.Advance(15 * time.Minute)

	a, _ := l.Hit(ctx, "k")
	assert.True(t, a.Allowed)
	assert.Equal(t, 1, a.Count)
}

func TestMemoryLimiter_SweepsExpiredWindows(t *testing.T) {
	l, clock := newLimiter()
	ctx := context.Background()

	for i := 0; i < sweepEvery-1; i++ {
		_, _ = l.Hit(ctx, fmt.Sprintf("k%d", i))
	}
	clock.Advance(time.Hour)
	_, _ = l.Hit(ctx, "fresh")

	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter(50, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, _ := l.Hit(ctx, "shared")
			allowed <- a.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	n := 0
	for ok := range allowed {
		if ok {
			n++
		}
	}
	assert.Equal(t, 50, n)
}
