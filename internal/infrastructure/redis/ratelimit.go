package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const limitKeyPrefix = "phoneprice:ratelimit:"

// fixedWindow increments the counter and starts its window on first hit.
var fixedWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// WindowLimiter allows Max hits per key in each fixed Window.
type WindowLimiter struct {
	Client *redis.Client
	Max    int
	Window time.Duration
}

var _ Limiter = (*WindowLimiter)(nil)

func NewWindowLimiter(client *redis.Client, limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{Client: client, Max: limit, Window: window}
}

func (l *WindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindow.Run(ctx, l.Client, []string{limitKeyPrefix + key}, l.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected reply %v", res)
	}
	n, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.Window
	}
	remaining := l.Max - n
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: n <= l.Max, Limit: l.Max, Remaining: remaining, ResetIn: ttl}, nil
}
