package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements a Redis-backed cache.
type Redis struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisConfig configures the Redis cache.
type RedisConfig struct {
	// Address is the Redis server address (e.g., "localhost:6379").
	Address string

	// Password for Redis authentication.
	Password string

	// DB is the database number to use.
	DB int

	// KeyPrefix is prepended to all keys.
	KeyPrefix string
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Address == "" {
		return nil, errors.New("cache: redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Redis{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

func (r *Redis) key(k string) string {
	return r.keyPrefix + k
}

// Get retrieves a value by key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores a value with the given TTL. A ttl of 0 means no expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

// Delete removes a key from the cache.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear removes all entries under the configured prefix. With no prefix it
// flushes the whole DB; the site runs against a dedicated cache DB.
func (r *Redis) Clear(ctx context.Context) error {
	if r.keyPrefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
