package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestMemory_MissingKey(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	_, err := m.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired key: err = %v, want ErrNotFound", err)
	}
}

func TestMemory_NoExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Errorf("zero-TTL key should not expire: %v", err)
	}
}

func TestMemory_Closed(t *testing.T) {
	m := NewMemory()
	m.Close()

	if _, err := m.Get(context.Background(), "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close: err = %v, want ErrClosed", err)
	}
	if err := m.Set(context.Background(), "k", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close: err = %v, want ErrClosed", err)
	}
}

func TestMiddleware_ServesFromCache(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	var hits atomic.Int32
	handler := Middleware(m, MiddlewareConfig{TTL: time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<h1>hello</h1>"))
		}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
		if rec.Body.String() != "<h1>hello</h1>" {
			t.Fatalf("request %d: body = %q", i+1, rec.Body.String())
		}
	}

	if hits.Load() != 1 {
		t.Errorf("upstream handler ran %d times, want 1 (second request from cache)", hits.Load())
	}
}

func TestMiddleware_SkipsPOST(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	var hits atomic.Int32
	handler := Middleware(m, MiddlewareConfig{TTL: time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusOK)
		}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	}

	if hits.Load() != 2 {
		t.Errorf("POST requests should never be cached; handler ran %d times, want 2", hits.Load())
	}
}

func TestMiddleware_SkipFunc(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	var hits atomic.Int32
	handler := Middleware(m, MiddlewareConfig{
		TTL:  time.Minute,
		Skip: func(r *http.Request) bool { return r.URL.Path == "/metrics" },
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	}

	if hits.Load() != 2 {
		t.Errorf("skipped path should bypass the cache; handler ran %d times, want 2", hits.Load())
	}
}

func TestMiddleware_DoesNotCacheErrors(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	var hits atomic.Int32
	handler := Middleware(m, MiddlewareConfig{TTL: time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	}

	if hits.Load() != 2 {
		t.Errorf("404 responses must not be cached; handler ran %d times, want 2", hits.Load())
	}
}
