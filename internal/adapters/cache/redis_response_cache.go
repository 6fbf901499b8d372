package cache

import (
	"context"
	"errors"
	"fmt"
	"localfinder/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "localfinder:resp:"

// Redis-backed response cache, shared by every process pointing at the same
// Redis. Staleness is enforced by key expiry.
type RedisResponseCache struct {
	Client *redis.Client
}

func NewRedisResponseCache(client *redis.Client) *RedisResponseCache {
	return &RedisResponseCache{Client: client}
}

// NewRedisResponseCacheFromURL parses a redis:// URL and verifies the connection.
func NewRedisResponseCacheFromURL(ctx context.Context, url string) (*RedisResponseCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis response cache: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis response cache: ping: %w", err)
	}

	return &RedisResponseCache{Client: client}, nil
}

func (r *RedisResponseCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "response.cache.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("redis response cache: client is nil")
	}

	val, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis response cache: get %q: %w", key, err)
	}

	return val, true, nil
}

func (r *RedisResponseCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if r.Client == nil {
		return errors.New("redis response cache: client is nil")
	}
	if ttl <= 0 {
		return nil
	}

	if err := r.Client.Set(ctx, redisKeyPrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis response cache: set %q: %w", key, err)
	}
	return nil
}

func (r *RedisResponseCache) Delete(ctx context.Context, key string) error {
	if r.Client == nil {
		return errors.New("redis response cache: client is nil")
	}

	if err := r.Client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis response cache: delete %q: %w", key, err)
	}
	return nil
}

func (r *RedisResponseCache) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
