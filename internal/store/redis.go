package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "podstore:store"

// RedisBackend keeps each sequence under podstore:store:<session>:<key>.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// TTL of zero keeps values until cleared.
	TTL time.Duration
}

func NewRedisBackend(opts RedisOptions) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisBackendFromClient(client, opts.TTL)
}

func NewRedisBackendFromClient(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func redisKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, sessionID, key)
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, redisKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoValue
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (r *RedisBackend) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(sessionID, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, sessionID, key string) error {
	if err := r.client.Del(ctx, redisKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
