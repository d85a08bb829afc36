package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"github.com/arunsaradgi/fullstacktodo/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultKey holds the serialized todo list.
const DefaultKey = "todos:all"

// ListCache stores the full todo list between writes. Misses and backend
// failures look the same to callers: the store stays the source of truth.
type ListCache interface {
	Get(ctx context.Context) ([]todo.Todo, bool)
	Set(ctx context.Context, todos []todo.Todo)
	Invalidate(ctx context.Context) error
}

// RedisCache implements ListCache on a single Redis key with a TTL.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCache creates a cache under key (DefaultKey when empty).
func NewRedisCache(client *redis.Client, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = DefaultKey
	}
	return &RedisCache{client: client, key: key, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) ([]todo.Todo, bool) {
	b, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Debugf("redis get %s failed: %v", c.key, err)
		}
		return nil, false
	}
	var todos []todo.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		logger.Debugf("redis unmarshal %s failed: %v", c.key, err)
		return nil, false
	}
	return todos, true
}

func (c *RedisCache) Set(ctx context.Context, todos []todo.Todo) {
	b, err := json.Marshal(todos)
	if err != nil {
		logger.Debugf("marshal todos for cache failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		logger.Debugf("redis set %s failed: %v", c.key, err)
	}
}

// Invalidate drops the cached list.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
