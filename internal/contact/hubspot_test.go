package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func fastRetryForwarder(apiKey, baseURL string) *HubSpotForwarder {
	f := NewHubSpotForwarder(apiKey, baseURL, zap.NewNop())
	f.retry.InitialDelay = time.Millisecond
	f.retry.MaxDelay = 5 * time.Millisecond
	return f
}

func testSubmission() *Submission {
	now := time.Now().UTC()
	return &Submission{
		ID:        "sub-1",
		Email:     "test@example.com",
		Message:   "hello",
		Status:    StatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestHubSpotForwarder_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/contacts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	f := fastRetryForwarder("key-123", srv.URL)
	if err := f.Forward(context.Background(), testSubmission()); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if gotAuth != "Bearer key-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	props, _ := gotBody["properties"].(map[string]any)
	if props["email"] != "test@example.com" {
		t.Errorf("forwarded properties = %v", gotBody)
	}
}

func TestHubSpotForwarder_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	f := fastRetryForwarder("k", srv.URL)
	if err := f.Forward(context.Background(), testSubmission()); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestHubSpotForwarder_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	f := fastRetryForwarder("k", srv.URL)
	if err := f.Forward(context.Background(), testSubmission()); err == nil {
		t.Fatal("Forward succeeded on 422")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1 (no retry on client error)", got)
	}
}
