package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/metrics"
	"github.com/westmarkadvisory/website/internal/validate"
)

// Notifier delivers a heads-up about a new submission (SMTP in production).
type Notifier interface {
	Notify(ctx context.Context, sub *Submission) error
}

// Forwarder pushes a submission to an external CRM.
type Forwarder interface {
	Forward(ctx context.Context, sub *Submission) error
}

// ValidationError marks input problems the caller should surface as HTTP 400.
type ValidationError struct {
	// Reason is a short machine label used for metrics:
	// "missing_email" or "invalid_email".
	Reason string
	// Msg is the user-facing message.
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Service validates and stores submissions, then fans out best-effort
// delivery to the notifier and forwarder. Delivery failures are logged and
// counted but never fail the submission.
type Service struct {
	store     Store
	notifier  Notifier  // nil when SMTP is not configured
	forwarder Forwarder // nil when no CRM key is configured
	logger    *zap.Logger

	// deliveryTimeout bounds each outbound delivery attempt chain.
	deliveryTimeout time.Duration

	// sync forces in-request delivery; tests use it to observe outcomes.
	sync bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNotifier attaches an email notifier.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// WithForwarder attaches a CRM forwarder.
func WithForwarder(f Forwarder) ServiceOption {
	return func(s *Service) { s.forwarder = f }
}

// WithSyncDelivery runs notifier/forwarder inline instead of in a goroutine.
func WithSyncDelivery() ServiceOption {
	return func(s *Service) { s.sync = true }
}

// NewService creates a Service over the given store.
func NewService(store Store, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:           store,
		logger:          logger,
		deliveryTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the input, persists a new submission, and kicks off
// best-effort delivery. On success the stored submission is returned.
func (s *Service) Submit(ctx context.Context, email, message string) (*Submission, error) {
	if strings.TrimSpace(email) == "" {
		metrics.SubmissionsRejected.WithLabelValues("missing_email").Inc()
		return nil, &ValidationError{Reason: "missing_email", Msg: "Email is required"}
	}
	if !validate.EmailValid(email) {
		metrics.SubmissionsRejected.WithLabelValues("invalid_email").Inc()
		return nil, &ValidationError{Reason: "invalid_email", Msg: "Please provide a valid email address"}
	}

	now := time.Now().UTC()
	sub := &Submission{
		ID:        uuid.NewString(),
		Email:     email,
		Message:   message,
		Status:    StatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("contact: save submission: %w", err)
	}
	metrics.SubmissionsAccepted.Inc()

	s.logger.Info("contact submission received",
		zap.String("id", sub.ID),
		zap.String("email", sub.Email),
		zap.Int("message_len", len(sub.Message)),
	)

	if s.sync {
		s.deliver(ctx, sub)
	} else if s.notifier != nil || s.forwarder != nil {
		// Delivery must not delay or fail the HTTP response, so it runs
		// detached from the request context.
		go func() {
			dctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
			defer cancel()
			s.deliver(dctx, sub)
		}()
	}

	return sub, nil
}

func (s *Service) deliver(ctx context.Context, sub *Submission) {
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, sub); err != nil {
			metrics.DeliveryFailures.WithLabelValues("email").Inc()
			s.logger.Error("submission email notification failed",
				zap.String("id", sub.ID), zap.Error(err))
		}
	}
	if s.forwarder != nil {
		if err := s.forwarder.Forward(ctx, sub); err != nil {
			metrics.DeliveryFailures.WithLabelValues("crm").Inc()
			s.logger.Error("submission CRM forward failed",
				zap.String("id", sub.ID), zap.Error(err))
		}
	}
}

// List returns stored submissions per opts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*Submission, error) {
	return s.store.List(ctx, opts)
}

// MarkRead flips a submission to read.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.store.MarkRead(ctx, id)
}
