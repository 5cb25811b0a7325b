package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a shared Redis instance, giving every
// application instance the same view of attempt counts. This is the
// production backing for multi-instance deployments; a per-process map would
// multiply the effective limit by the instance count.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces the limiter's Redis keys.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.prefix = prefix
		}
	}
}

// NewRedisStore creates a store on an existing Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client: client,
		prefix: "ratelimit:",
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// consumeScript atomically increments the attempt count and stamps the window
// expiry on first use. Running it server-side avoids the check-then-set race
// between INCR and EXPIRE.
var consumeScript = redis.NewScript(`
local attempts = redis.call("INCR", KEYS[1])
if attempts == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {attempts, ttl}
`)

func (rs *RedisStore) ConsumeAttempt(ctx context.Context, key string, config Config) (remaining int, resetAt time.Time, err error) {
	values, err := consumeScript.Run(ctx, rs.client, []string{rs.prefix + key}, config.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(values) != 2 {
		return 0, time.Time{}, ErrStoreUnavailable
	}

	attempts, ttlMs := values[0], values[1]
	if ttlMs < 0 {
		ttlMs = config.Window.Milliseconds()
	}
	resetAt = time.Now().Add(time.Duration(ttlMs) * time.Millisecond)

	if attempts > int64(config.Limit) {
		return -1, resetAt, nil
	}
	return config.Limit - int(attempts), resetAt, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
