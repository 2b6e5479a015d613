package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "safetymonitor:lexicon"

// RedisAdapter keeps the lexicon in a Redis set so several instances share it.
type RedisAdapter struct {
	client redis.UniversalClient
	key    string
}

// NewRedisAdapter creates an adapter over an existing client.
func NewRedisAdapter(client redis.UniversalClient, key string) (*RedisAdapter, error) {
	if client == nil {
		return nil, errors.New("storage: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		key = DefaultRedisKey
	}
	return &RedisAdapter{client: client, key: key}, nil
}

func (r *RedisAdapter) AddWord(ctx context.Context, word string) error {
	return r.client.SAdd(ctx, r.key, word).Err()
}

func (r *RedisAdapter) RemoveWord(ctx context.Context, word string) error {
	return r.client.SRem(ctx, r.key, word).Err()
}

func (r *RedisAdapter) Words(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, r.key).Result()
}

func (r *RedisAdapter) HasWord(ctx context.Context, word string) (bool, error) {
	return r.client.SIsMember(ctx, r.key, word).Result()
}

// Ping checks connectivity.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
