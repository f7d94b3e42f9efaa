// ABOUTME: Redis storage implementation using go-redis client
// ABOUTME: Lets multiple bridge instances share one settings store

package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/pkg/config"
)

// keyPrefix namespaces bridge keys in a shared Redis instance.
const keyPrefix = "mealie-bridge:"

// RedisStorage implements the Storage interface using Redis
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(ctx context.Context, cfg config.RedisConfig) (*RedisStorage, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStorage{
		client: client,
	}, nil
}

// Get retrieves a value from Redis
func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, interfaces.ErrKeyNotFound
		}
		return nil, err
	}

	return val, nil
}

// Set stores a value in Redis without expiration
func (s *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, keyPrefix+key, value, 0).Err()
}

// Delete removes a key from Redis
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	// Deleting a non-existent key is not an error for our use case
	s.client.Del(ctx, keyPrefix+key)
	return nil
}

// Close closes the Redis connection
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
