package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "autoparts:selection:"

type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisBackend keeps the selection record under one Redis key, so several
// kiosks can share a namespace.
type RedisBackend struct {
	client redisCmdable
	key    string
}

// OpenRedis parses a redis:// URL, checks connectivity and returns a backend.
func OpenRedis(ctx context.Context, url, namespace string) (*RedisBackend, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisBackend(client, namespace), client, nil
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client redisCmdable, namespace string) *RedisBackend {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisBackend{client: client, key: redisKeyPrefix + namespace}
}

func (b *RedisBackend) Load(ctx context.Context) (State, error) {
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("redis get %s: %w", b.key, err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("decode %s: %w", b.key, err)
	}
	return state, nil
}

func (b *RedisBackend) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := b.client.Set(ctx, b.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}
