package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := New(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if l.Allow() {
		t.Error("request beyond burst should be denied")
	}
}

func TestLimiter_Refills(t *testing.T) {
	l := New(100, 1) // 100 tokens/sec, so ~10ms per token

	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}
	if l.Allow() {
		t.Fatal("second immediate request should be denied")
	}

	time.Sleep(20 * time.Millisecond)

	if !l.Allow() {
		t.Error("request after refill interval should be allowed")
	}
}

func TestKeyLimiter_IndependentKeys(t *testing.T) {
	kl := NewKeyLimiter(1, 1, time.Hour)

	if !kl.Allow("1.2.3.4") {
		t.Fatal("first request for key A should be allowed")
	}
	if kl.Allow("1.2.3.4") {
		t.Error("second request for key A should be denied")
	}
	if !kl.Allow("5.6.7.8") {
		t.Error("first request for key B should be allowed")
	}
	if kl.Size() != 2 {
		t.Errorf("Size() = %d, want 2", kl.Size())
	}
}

func TestIPKey(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		remote string
		want   string
	}{
		{
			name:   "remote addr with port",
			remote: "10.0.0.1:54321",
			want:   "10.0.0.1",
		},
		{
			name:   "x-forwarded-for single",
			setup:  func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.9") },
			remote: "10.0.0.1:54321",
			want:   "203.0.113.9",
		},
		{
			name:   "x-forwarded-for chain takes first",
			setup:  func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.2") },
			remote: "10.0.0.1:54321",
			want:   "203.0.113.9",
		},
		{
			name:   "x-real-ip",
			setup:  func(r *http.Request) { r.Header.Set("X-Real-IP", "198.51.100.7") },
			remote: "10.0.0.1:54321",
			want:   "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
			r.RemoteAddr = tt.remote
			if tt.setup != nil {
				tt.setup(r)
			}
			if got := IPKey(r); got != tt.want {
				t.Errorf("IPKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPerIP_Returns429(t *testing.T) {
	handler := PerIP(1, 1, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}
