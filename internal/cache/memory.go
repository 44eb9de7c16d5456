package cache

import (
	"context"
	"sync"
	"time"
)

// Memory implements an in-memory cache with TTL support.
type Memory struct {
	mu     sync.RWMutex
	items  map[string]*item
	closed bool
	stopCh chan struct{}
}

type item struct {
	value     []byte
	expiresAt time.Time
	noExpiry  bool
}

// NewMemory creates a new in-memory cache. Expired items are removed lazily
// on Get and swept once a minute in the background.
func NewMemory() *Memory {
	m := &Memory{
		items:  make(map[string]*item, 100),
		stopCh: make(chan struct{}),
	}

	go m.sweep(time.Minute)

	return m
}

// Get retrieves a value by key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	it, exists := m.items[key]
	if !exists {
		return nil, ErrNotFound
	}
	if !it.noExpiry && time.Now().After(it.expiresAt) {
		return nil, ErrNotFound
	}

	// Copy so callers can't mutate the cached value.
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

// Set stores a value with the given TTL. A ttl of 0 means no expiry.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	v := make([]byte, len(value))
	copy(v, value)

	it := &item{value: v}
	if ttl == 0 {
		it.noExpiry = true
	} else {
		it.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

// Delete removes a key from the cache.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Clear removes all entries from the cache.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items = make(map[string]*item, 100)
	return nil
}

// Close stops the background sweeper and marks the cache closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.stopCh)
	m.items = nil
	return nil
}

func (m *Memory) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			if m.closed {
				m.mu.Unlock()
				return
			}
			for k, it := range m.items {
				if !it.noExpiry && now.After(it.expiresAt) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
