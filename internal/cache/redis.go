package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"calcforge/internal/domain"
)

// DefaultKeyPrefix namespaces calculation entries.
const DefaultKeyPrefix = "calcforge:calc:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration // <= 0 means no expiry
	KeyPrefix string
}

// RedisStore is a Redis implementation of Store. Results are stored as JSON.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     20,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed (%s): %w", opts.Addr, err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{rdb: rdb, ttl: opts.TTL, prefix: prefix}, nil
}

// Get returns cached results decoded from JSON.
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.Results, error) {
	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var res domain.Results
	if err := json.Unmarshal(val, &res); err != nil {
		return nil, fmt.Errorf("decode cached results: %w", err)
	}
	return &res, nil
}

// Set stores results as JSON with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, res *domain.Results) error {
	if key == "" || res == nil {
		return ErrInvalidInput
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close shuts down the underlying redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Verify interface compliance at compile time.
var _ Store = (*RedisStore)(nil)
