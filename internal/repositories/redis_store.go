package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spacify/internal/storage"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a storage.Store on top of Redis string keys.
type RedisStore struct {
	Client  *redis.Client
	Prefix  string
	Timeout time.Duration
}

var _ storage.Store = RedisStore{}

// NewRedisClient builds a client from a redis:// URL or a bare "host:port".
func NewRedisClient(raw string) (*redis.Client, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	if !strings.Contains(raw, "://") {
		return redis.NewClient(&redis.Options{Addr: raw, DB: 0}), nil
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (r RedisStore) ctx() (context.Context, context.CancelFunc) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (r RedisStore) key(k string) string {
	if r.Prefix == "" {
		return k
	}
	return r.Prefix + ":" + k
}

func (r RedisStore) Load(key string) (string, bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	v, err := r.Client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r RedisStore) Save(key, value string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.Client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r RedisStore) Clear(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.Client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
