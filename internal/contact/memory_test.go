package contact

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func seedStore(t *testing.T, s Store, n int) []*Submission {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	subs := make([]*Submission, 0, n)
	for i := 0; i < n; i++ {
		sub := &Submission{
			ID:        fmt.Sprintf("id-%02d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Message:   "msg",
			Status:    StatusUnread,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Save(context.Background(), sub); err != nil {
			t.Fatalf("Save: %v", err)
		}
		subs = append(subs, sub)
	}
	return subs
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s, 5)

	got, err := s.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("submissions out of order at %d", i)
		}
	}
}

func TestMemoryStore_Pagination(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s, 5)

	page, err := s.List(context.Background(), ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d, want 2", len(page))
	}
	// Newest-first: offset 2 of 5 lands on id-02 then id-01.
	if page[0].ID != "id-02" || page[1].ID != "id-01" {
		t.Errorf("page = %s, %s", page[0].ID, page[1].ID)
	}

	empty, err := s.List(context.Background(), ListOptions{Limit: 10, Offset: 99})
	if err != nil {
		t.Fatalf("List past end: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d past end, want 0", len(empty))
	}
}

func TestMemoryStore_StatusFilterAndMarkRead(t *testing.T) {
	s := NewMemoryStore()
	subs := seedStore(t, s, 3)

	if err := s.MarkRead(context.Background(), subs[1].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	read, _ := s.List(context.Background(), ListOptions{Status: StatusRead})
	if len(read) != 1 || read[0].ID != subs[1].ID {
		t.Fatalf("read filter returned %d items", len(read))
	}
	unread, _ := s.List(context.Background(), ListOptions{Status: StatusUnread})
	if len(unread) != 2 {
		t.Fatalf("unread filter returned %d items, want 2", len(unread))
	}
	all, _ := s.List(context.Background(), ListOptions{Status: "all"})
	if len(all) != 3 {
		t.Fatalf("all filter returned %d items, want 3", len(all))
	}
}

func TestMemoryStore_MarkReadMissing(t *testing.T) {
	s := NewMemoryStore()
	if err := s.MarkRead(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ListReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s, 1)

	got, _ := s.List(context.Background(), ListOptions{})
	got[0].Email = "mutated@example.com"

	again, _ := s.List(context.Background(), ListOptions{})
	if again[0].Email == "mutated@example.com" {
		t.Error("List returned a reference into the store")
	}
}
