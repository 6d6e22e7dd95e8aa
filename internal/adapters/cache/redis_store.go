// Package cache holds the Redis-backed access token denylist and the
// once-per-key guard used by scheduled jobs.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"princip-gym/internal/pkg/password"

	"github.com/redis/go-redis/v9"
)

const (
	denyPrefix = "gym:denylist:"
	oncePrefix = "gym:once:"
)

// Store is the subset of cache behaviour the services depend on.
type Store interface {
	// Deny rejects token until ttl elapses.
	Deny(ctx context.Context, token string, ttl time.Duration) error
	// IsDenied reports whether token was denied and has not yet expired.
	IsDenied(ctx context.Context, token string) (bool, error)
	// Once returns true the first time key is seen within ttl.
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Ping(ctx context.Context) error
}

// RedisStore implements Store on go-redis.
type RedisStore struct {
	client *redis.Client
}

// Options for the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts Options) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Deny stores the token hash, never the raw token
func (s *RedisStore) Deny(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, denyPrefix+password.HashToken(token), 1, ttl).Err()
}

func (s *RedisStore) IsDenied(ctx context.Context, token string) (bool, error) {
	err := s.client.Get(ctx, denyPrefix+password.HashToken(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Once(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, oncePrefix+key, 1, ttl).Result()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NoopStore is used when Redis is not configured. Nothing is ever denied
// and every Once call succeeds.
type NoopStore struct{}

func (NoopStore) Deny(context.Context, string, time.Duration) error         { return nil }
func (NoopStore) IsDenied(context.Context, string) (bool, error)            { return false, nil }
func (NoopStore) Once(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (NoopStore) Ping(context.Context) error                                { return nil }
