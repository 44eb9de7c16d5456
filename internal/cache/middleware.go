package cache

import (
	"bytes"
	"encoding/gob"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MiddlewareConfig configures the page cache middleware.
type MiddlewareConfig struct {
	// TTL is how long to cache responses. Default: 5 minutes.
	TTL time.Duration

	// KeyPrefix is prepended to all cache keys.
	KeyPrefix string

	// Skip returns true to skip caching for a request.
	Skip func(r *http.Request) bool
}

// Middleware returns HTTP middleware that caches successful GET/HEAD
// responses. Responses carrying Set-Cookie or Cache-Control: no-store are
// never cached.
func Middleware(c Cache, cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			key := cfg.KeyPrefix + cacheKey(r)

			if data, err := c.Get(r.Context(), key); err == nil {
				if entry, err := decodeEntry(data); err == nil {
					writeCached(w, entry)
					return
				}
			}

			rec := &responseRecorder{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			if rec.statusCode < 200 || rec.statusCode >= 300 {
				return
			}
			if !shouldCache(rec) {
				return
			}

			entry := &cachedResponse{
				StatusCode:  rec.statusCode,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if encoded, err := encodeEntry(entry); err == nil {
				_ = c.Set(r.Context(), key, encoded, cfg.TTL)
			}
		})
	}
}

// cacheKey builds a key from method, path, and query string.
func cacheKey(r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	return key
}

type cachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func encodeEntry(e *cachedResponse) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeEntry(data []byte) (*cachedResponse, error) {
	var e cachedResponse
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

func writeCached(w http.ResponseWriter, e *cachedResponse) {
	if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.Header().Set("X-Cache", "HIT")
	w.Header().Set("Content-Length", strconv.Itoa(len(e.Body)))
	w.WriteHeader(e.StatusCode)
	_, _ = w.Write(e.Body)
}

func shouldCache(rec *responseRecorder) bool {
	if rec.Header().Get("Set-Cookie") != "" {
		return false
	}
	cc := rec.Header().Get("Cache-Control")
	if strings.Contains(cc, "no-store") || strings.Contains(cc, "private") {
		return false
	}
	return true
}

// responseRecorder tees the response body so it can be stored after serving.
type responseRecorder struct {
	http.ResponseWriter
	body        *bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.statusCode = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
