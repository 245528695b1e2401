package ratelimit

import (
	"context"
	"fmt"
	"time"

	"finance-platform/internal/config"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript counts attempts per key within a window.
//
// KEYS[1] = counter key
// ARGV[1] = limit (int)
// ARGV[2] = window_ms (int)
//
// Returns 1 if the attempt is allowed, 0 if the limit is reached. Rejected
// attempts still count: hammering a limited endpoint extends nothing but
// keeps it closed.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
else
  -- Ensure TTL exists even if key already existed without TTL
  if redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
  end
end

if current > tonumber(ARGV[1]) then
  return 0
end
return 1
`)

// Limiter is a Redis-backed fixed-window rate limiter for the credential
// endpoints. Token verification is pure computation and is never limited;
// only issuance paths (login/refresh) go through here.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		rdb:    rdb,
		limit:  cfg.LoginAttempts,
		window: cfg.LoginWindow,
	}
}

// Allow reports whether one more attempt under key fits in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return false, fmt.Errorf("key is required")
	}
	if l.limit <= 0 || l.window <= 0 {
		return false, fmt.Errorf("limiter misconfigured: limit=%d window=%v", l.limit, l.window)
	}

	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, l.limit, l.window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
