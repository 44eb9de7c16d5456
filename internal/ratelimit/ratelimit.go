// Package ratelimit implements token-bucket rate limiting for the contact
// endpoint, keyed per client IP.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter.
type Limiter struct {
	mu       sync.Mutex
	rate     float64   // tokens per second
	burst    int       // maximum bucket size
	tokens   float64   // current tokens
	lastTime time.Time // last token update
}

// New creates a new rate limiter.
// rate is the number of requests allowed per second.
// burst is the maximum number of requests allowed in a burst.
func New(rate float64, burst int) *Limiter {
	return &Limiter{
		rate:     rate,
		burst:    burst,
		tokens:   float64(burst),
		lastTime: time.Now(),
	}
}

// Allow reports whether a request is allowed.
// It consumes one token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	// Add tokens based on elapsed time
	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}

	if l.tokens >= 1 {
		l.tokens--
		return true
	}

	return false
}

// KeyLimiter provides per-key rate limiting (e.g., per IP address).
type KeyLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*entry
	rate     float64
	burst    int
	ttl      time.Duration
}

type entry struct {
	limiter  *Limiter
	lastSeen time.Time
}

// NewKeyLimiter creates a rate limiter that tracks limits per key.
// rate is requests per second, burst is max burst size.
// ttl is how long to keep inactive keys before cleanup.
func NewKeyLimiter(rate float64, burst int, ttl time.Duration) *KeyLimiter {
	kl := &KeyLimiter{
		limiters: make(map[string]*entry),
		rate:     rate,
		burst:    burst,
		ttl:      ttl,
	}

	go kl.cleanup()

	return kl
}

// Allow checks if the request for the given key is allowed.
func (kl *KeyLimiter) Allow(key string) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	e, exists := kl.limiters[key]
	if !exists {
		e = &entry{
			limiter:  New(kl.rate, kl.burst),
			lastSeen: time.Now(),
		}
		kl.limiters[key] = e
	} else {
		e.lastSeen = time.Now()
	}

	return e.limiter.Allow()
}

// Size returns the number of tracked keys.
func (kl *KeyLimiter) Size() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.limiters)
}

// cleanup removes stale entries periodically.
func (kl *KeyLimiter) cleanup() {
	ticker := time.NewTicker(kl.ttl)
	defer ticker.Stop()

	for range ticker.C {
		kl.mu.Lock()
		now := time.Now()
		for key, e := range kl.limiters {
			if now.Sub(e.lastSeen) > kl.ttl {
				delete(kl.limiters, key)
			}
		}
		kl.mu.Unlock()
	}
}

// IPKey returns the client IP address as the rate limit key.
// It checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func IPKey(r *http.Request) string {
	// Check X-Forwarded-For first (may contain multiple IPs)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port)
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
