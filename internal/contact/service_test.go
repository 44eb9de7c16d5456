package contact

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

type stubNotifier struct {
	calls atomic.Int64
	err   error
}

func (n *stubNotifier) Notify(context.Context, *Submission) error {
	n.calls.Add(1)
	return n.err
}

type stubForwarder struct {
	calls atomic.Int64
	last  *Submission
	err   error
}

func (f *stubForwarder) Forward(_ context.Context, sub *Submission) error {
	f.calls.Add(1)
	f.last = sub
	return f.err
}

func TestService_DeliveryFanOut(t *testing.T) {
	notifier := &stubNotifier{}
	forwarder := &stubForwarder{}
	svc := NewService(NewMemoryStore(), zap.NewNop(),
		WithNotifier(notifier), WithForwarder(forwarder), WithSyncDelivery())

	sub, err := svc.Submit(context.Background(), "test@example.com", "hello")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got := notifier.calls.Load(); got != 1 {
		t.Errorf("notifier called %d times, want 1", got)
	}
	if got := forwarder.calls.Load(); got != 1 {
		t.Errorf("forwarder called %d times, want 1", got)
	}
	if forwarder.last.ID != sub.ID {
		t.Errorf("forwarder saw submission %q, want %q", forwarder.last.ID, sub.ID)
	}
}

func TestService_DeliveryFailureDoesNotFailSubmit(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("smtp down")}
	forwarder := &stubForwarder{err: errors.New("crm down")}
	store := NewMemoryStore()
	svc := NewService(store, zap.NewNop(),
		WithNotifier(notifier), WithForwarder(forwarder), WithSyncDelivery())

	if _, err := svc.Submit(context.Background(), "test@example.com", ""); err != nil {
		t.Fatalf("Submit failed on delivery error: %v", err)
	}

	subs, _ := store.List(context.Background(), ListOptions{})
	if len(subs) != 1 {
		t.Fatalf("stored %d submissions, want 1", len(subs))
	}
}

func TestService_NoDeliveryWithoutConfig(t *testing.T) {
	// Without notifier/forwarder options, a submit stores and does nothing else.
	svc := NewService(NewMemoryStore(), zap.NewNop(), WithSyncDelivery())
	if _, err := svc.Submit(context.Background(), "test@example.com", ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestService_ValidationErrors(t *testing.T) {
	svc := NewService(NewMemoryStore(), zap.NewNop())

	tests := []struct {
		email  string
		reason string
	}{
		{"", "missing_email"},
		{"   ", "missing_email"},
		{"notanemail", "invalid_email"},
		{"a@b", "invalid_email"},
	}
	for _, tt := range tests {
		_, err := svc.Submit(context.Background(), tt.email, "")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("email %q: err = %v, want ValidationError", tt.email, err)
			continue
		}
		if verr.Reason != tt.reason {
			t.Errorf("email %q: reason = %q, want %q", tt.email, verr.Reason, tt.reason)
		}
	}
}
