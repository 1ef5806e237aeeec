package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "dnsimple-cli:cache:"

// RedisBackend stores entries as plain keys with a native expiry.
type RedisBackend struct {
	client *redis.Client
	addr   string
}

// NewRedisBackend connects lazily; the first command reports an unreachable server.
func NewRedisBackend(rawURL string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis cache URL: %w", err)
	}
	return &RedisBackend{client: redis.NewClient(opts), addr: opts.Addr}, nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, redisPrefix+key, value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, redisPrefix+key).Err()
}

// Clear deletes keys under this program's prefix only.
func (b *RedisBackend) Clear(ctx context.Context) (int, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := b.client.Del(ctx, keys...).Result()
	return int(n), err
}

func (b *RedisBackend) Location() string { return "redis://" + b.addr }

func (b *RedisBackend) Close() error { return b.client.Close() }
