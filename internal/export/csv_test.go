package export

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCSV_Bytes(t *testing.T) {
	data, err := NewCSV().
		Headers("id", "email", "message").
		Row("1", "a@example.com", "hello").
		Row("2", "b@example.com", "with, comma").
		Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	got := string(data)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), got)
	}
	if strings.TrimRight(lines[0], "\r") != "id,email,message" {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[2], `"with, comma"`) {
		t.Errorf("comma value not quoted: %q", lines[2])
	}
}

func TestCSV_NoHeaders(t *testing.T) {
	if _, err := NewCSV().Row("x").Bytes(); err != ErrEmptyHeaders {
		t.Errorf("err = %v, want ErrEmptyHeaders", err)
	}
}

func TestCSV_WriteHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	err := NewCSV().Headers("a").Row("1").WriteHTTP(rec, "contacts.csv")
	if err != nil {
		t.Fatalf("WriteHTTP: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "contacts.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
