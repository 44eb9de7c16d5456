package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON_ClampsBadStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 9999, map[string]string{"k": "v"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestJSONEnvelopes(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, http.StatusBadRequest, "Email is required")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Email is required"}` {
		t.Errorf("body = %s", got)
	}

	rec = httptest.NewRecorder()
	JSONSuccess(rec, "Thanks")
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true,"message":"Thanks"}` {
		t.Errorf("body = %s", got)
	}
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"email":"a@b.co"}`, false},
		{"unknown fields tolerated", `{"email":"a@b.co","extra":1}`, false},
		{"empty body", ``, true},
		{"not json", `hello`, true},
		{"wrong type", `{"email":42}`, true},
		{"trailing values", `{"email":"a@b.co"} {"again":true}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(tt.body))
			var p payload
			err := BindJSON(req, &p)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
