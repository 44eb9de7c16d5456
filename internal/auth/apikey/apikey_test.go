package apikey

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func protected(expected string) http.Handler {
	return Require(expected, Options{Realm: "test"}, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  int
	}{
		{
			name: "no key",
			want: http.StatusUnauthorized,
		},
		{
			name:  "wrong key",
			setup: func(r *http.Request) { r.Header.Set("X-API-Key", "wrong") },
			want:  http.StatusUnauthorized,
		},
		{
			name:  "bearer token",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer sekrit") },
			want:  http.StatusOK,
		},
		{
			name:  "x-api-key header",
			setup: func(r *http.Request) { r.Header.Set("X-API-Key", "sekrit") },
			want:  http.StatusOK,
		},
		{
			name:  "query param",
			setup: func(r *http.Request) { r.URL.RawQuery = "api_key=sekrit" },
			want:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/contacts", nil)
			if tt.setup != nil {
				tt.setup(req)
			}
			rec := httptest.NewRecorder()
			protected("sekrit").ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				if rec.Header().Get("WWW-Authenticate") == "" {
					t.Error("missing WWW-Authenticate header on 401")
				}
			}
		})
	}
}

func TestRequire_EmptyExpectedKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/contacts", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()
	protected("").ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for misconfigured middleware", rec.Code)
	}
}
