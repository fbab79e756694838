package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

// hitScript increments the counter and starts the window on the first hit.
// It returns the count and the remaining window in milliseconds.
var hitScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// AttemptLimiter is a fixed-window counter shared by every API instance.
// Key format: ratelimit:<prefix>:<key>
type AttemptLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
	now    func() time.Time
}

func NewAttemptLimiter(client *redis.Client, prefix string, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client: client,
		prefix: prefix,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

var _ ports.AttemptLimiter = (*AttemptLimiter)(nil)

// Hit records one attempt for key.
func (l *AttemptLimiter) Hit(ctx context.Context, key string) (ports.Attempt, error) {
	res, err := hitScript.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return ports.Attempt{}, fmt.Errorf("rate limit hit: %w", err)
	}
	if len(res) != 2 {
		return ports.Attempt{}, fmt.Errorf("rate limit hit: unexpected reply %v", res)
	}

	count := int(res[0])
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return ports.Attempt{
		Allowed:   count <= l.max,
		Count:     count,
		Remaining: remaining,
		ResetAt:   l.now().Add(time.Duration(res[1]) * time.Millisecond),
	}, nil
}

func (l *AttemptLimiter) key(k string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.prefix, k)
}
