// Package cache provides the page cache for rendered HTML, with in-memory
// and Redis backends.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache defines the interface for cache implementations.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	// If ttl is 0, the value never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// Common errors
var (
	ErrNotFound = errors.New("cache: key not found")
	ErrClosed   = errors.New("cache: cache is closed")
)
