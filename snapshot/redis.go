package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps the document under a single string key
type RedisBackend struct {
	rdb *redis.Client
	key string
}

func NewRedisBackend(addr, password string, db int, key string) *RedisBackend {
	return NewRedisBackendWithOptions(&redis.Options{Addr: addr, Password: password, DB: db}, key)
}

func NewRedisBackendWithOptions(opts *redis.Options, key string) *RedisBackend {
	return &RedisBackend{rdb: redis.NewClient(opts), key: key}
}

func (r *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return data, nil
}

func (r *RedisBackend) Write(ctx context.Context, data []byte) error {
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// Ping verifies connectivity
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisBackend) Close() error { return r.rdb.Close() }
