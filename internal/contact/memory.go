package contact

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps submissions in process memory. It is the default store
// and the one the test suite uses. Everything is lost on restart, which is
// acceptable when SMTP notification is the delivery mechanism.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]*Submission
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]*Submission)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Save(_ context.Context, sub *Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.subs[sub.ID] = &cp
	return nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]*Submission, error) {
	opts.Normalize()

	s.mu.RLock()
	all := make([]*Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		if opts.Status != "" && opts.Status != "all" && sub.Status != opts.Status {
			continue
		}
		cp := *sub
		all = append(all, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if opts.Offset >= len(all) {
		return []*Submission{}, nil
	}
	all = all[opts.Offset:]
	if len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return ErrNotFound
	}
	sub.Status = StatusRead
	sub.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
