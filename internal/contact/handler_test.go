package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, opts ...ServiceOption) (*Handler, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewService(store, zap.NewNop(), opts...)
	return NewHandler(svc, zap.NewNop()), store
}

func postContact(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func TestSubmit_MissingEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{
		`{}`,
		`{"message": "hello"}`,
		`{"email": ""}`,
		`{"email": "   "}`,
	} {
		rec := postContact(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("body %s: invalid JSON response: %v", body, err)
		}
		if resp["error"] == "" {
			t.Errorf("body %s: missing error field in %s", body, rec.Body.String())
		}
	}
}

func TestSubmit_MalformedEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, email := range []string{"notanemail", "a@b", "has space@example.com", "@example.com", "user@"} {
		rec := postContact(t, h, `{"email": "`+email+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("email %q: status = %d, want 400", email, rec.Code)
		}
	}
}

func TestSubmit_ValidNoMessage(t *testing.T) {
	h, store := newTestHandler(t)

	rec := postContact(t, h, `{"email": "test@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Message == "" {
		t.Error("empty acknowledgement message")
	}

	subs, err := store.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("stored %d submissions, want 1", len(subs))
	}
	if subs[0].Email != "test@example.com" || subs[0].Message != "" {
		t.Errorf("stored submission = %+v", subs[0])
	}
	if subs[0].Status != StatusUnread {
		t.Errorf("status = %q, want unread", subs[0].Status)
	}
}

func TestSubmit_MessageAcceptedUnmodified(t *testing.T) {
	h, store := newTestHandler(t)

	msg := "Hello <b>there</b> & welcome\n\nsecond paragraph " + strings.Repeat("x", 10000)
	body, _ := json.Marshal(map[string]string{"email": "test@example.com", "message": msg})

	rec := postContact(t, h, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	subs, _ := store.List(context.Background(), ListOptions{})
	if len(subs) != 1 {
		t.Fatalf("stored %d submissions, want 1", len(subs))
	}
	if subs[0].Message != msg {
		t.Error("message was modified in storage")
	}
}

func TestSubmit_DuplicatesIndependent(t *testing.T) {
	h, store := newTestHandler(t)

	for i := 0; i < 2; i++ {
		rec := postContact(t, h, `{"email": "test@example.com", "message": "same"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("submit %d: status = %d, want 200", i, rec.Code)
		}
	}

	subs, _ := store.List(context.Background(), ListOptions{})
	if len(subs) != 2 {
		t.Fatalf("stored %d submissions, want 2 (no deduplication)", len(subs))
	}
	if subs[0].ID == subs[1].ID {
		t.Error("duplicate submissions share an ID")
	}
}

func TestSubmit_BadJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{``, `not json`, `{"email": 42}`} {
		rec := postContact(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

type failingStore struct {
	*MemoryStore
}

func (s *failingStore) Save(context.Context, *Submission) error {
	return errors.New("disk on fire")
}

func TestSubmit_StoreFailureIsGeneric500(t *testing.T) {
	store := &failingStore{NewMemoryStore()}
	svc := NewService(store, zap.NewNop())
	h := NewHandler(svc, zap.NewNop())

	rec := postContact(t, h, `{"email": "test@example.com"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["error"] != "Internal server error" {
		t.Errorf("error = %q, want generic message", resp["error"])
	}
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Error("internal error detail leaked to client")
	}
}
