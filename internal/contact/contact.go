// Package contact implements the contact-form submission pipeline: the
// public POST /api/contact endpoint, the submission store, the optional
// email notification and CRM forwarding, and the admin review surface.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Submission statuses.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Submission is one message received through the contact form.
type Submission struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"` // "unread" | "read"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListOptions carries filter and pagination parameters for listing submissions.
type ListOptions struct {
	// Status filters by submission status: "", "all", "unread", "read".
	// Empty string and "all" return all submissions.
	Status string
	Limit  int
	Offset int
}

// Normalize clamps pagination values into sane bounds.
func (o *ListOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.Status = strings.TrimSpace(strings.ToLower(o.Status))
}

// ErrNotFound is returned when a submission ID does not exist.
var ErrNotFound = errors.New("contact: submission not found")

// Store is the persistence interface for submissions. Implementations:
// memory (default), sqlite, postgres.
type Store interface {
	// Save inserts a new submission. ID, Status, CreatedAt and UpdatedAt
	// must already be set by the caller.
	Save(ctx context.Context, sub *Submission) error

	// List returns submissions newest-first, filtered per opts.
	List(ctx context.Context, opts ListOptions) ([]*Submission, error)

	// MarkRead flips a submission to status "read". Returns ErrNotFound
	// if no submission has the given ID.
	MarkRead(ctx context.Context, id string) error

	// Close releases any underlying resources.
	Close() error
}
