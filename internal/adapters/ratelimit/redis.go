// Package ratelimit provides sliding-window admission control keyed by
// subject id. The Redis implementation is shared by every server process;
// the memory implementation is for development and tests.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chirp/internal/domain"
	"chirp/internal/usecases"
	"chirp/pkg/log"
)

// admitScript trims the subject's window, counts what remains, and records
// the new action only when under the threshold. Running as a Lua script
// makes check+record atomic per subject across all processes.
//
// KEYS[1] window sorted set, ARGV: now_ms, window_ms, limit, member.
// Returns {allowed, remaining_after}.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
local count = redis.call("ZCARD", key)
if count >= limit then
	return {0, 0}
end
redis.call("ZADD", key, now, ARGV[4])
redis.call("PEXPIRE", key, window)
return {1, limit - count - 1}
`)

// Redis is a sliding-window rate limiter backed by a shared Redis instance.
type Redis struct {
	rdb    *redis.Client
	limit  int
	window time.Duration

	prefix    string
	analytics bool
}

// RedisOption configures a Redis limiter.
type RedisOption func(*Redis)

// WithPrefix overrides the key prefix (default "chirp:ratelimit").
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// WithAnalytics toggles advisory allow/deny counters. They are recorded
// best effort and never affect the admission decision.
func WithAnalytics(enabled bool) RedisOption {
	return func(r *Redis) { r.analytics = enabled }
}

// NewRedis creates a Redis-backed limiter admitting at most limit actions
// per subject within any trailing window.
func NewRedis(rdb *redis.Client, limit int, window time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "chirp:ratelimit",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Admit implements usecases.RateLimiter.
func (r *Redis) Admit(ctx context.Context, subjectID string) (usecases.Decision, error) {
	key := r.prefix + ":" + subjectID
	now := time.Now()

	res, err := admitScript.Run(ctx, r.rdb, []string{key},
		now.UnixMilli(),
		r.window.Milliseconds(),
		r.limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return usecases.Decision{}, fmt.Errorf("%w: rate limit store: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(res) != 2 {
		return usecases.Decision{}, fmt.Errorf("%w: rate limit store: unexpected reply %v", domain.ErrUpstreamUnavailable, res)
	}

	dec := usecases.Decision{
		Allowed:   res[0] == 1,
		Remaining: int(res[1]),
	}
	if !dec.Allowed {
		dec.RetryAfter = r.window
	}

	if r.analytics {
		r.recordStats(ctx, subjectID, now, dec.Allowed)
	}
	return dec, nil
}

// recordStats bumps cumulative and per-minute allow/deny counters.
func (r *Redis) recordStats(ctx context.Context, subjectID string, at time.Time, allowed bool) {
	field := "denied"
	if allowed {
		field = "allowed"
	}

	bucketKey := fmt.Sprintf("%s:stats:minute:%s", r.prefix, at.UTC().Format("200601021504"))

	pipe := r.rdb.Pipeline()
	pipe.HIncrBy(ctx, r.prefix+":stats:total", field, 1)
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	pipe.Expire(ctx, bucketKey, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		log.GlobalWarnCtx(ctx, "rate limit analytics write failed", "subject", subjectID, "error", err.Error())
	}
}
