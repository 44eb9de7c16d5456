package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/retry"
)

// DefaultHubSpotBaseURL is the production HubSpot API endpoint.
const DefaultHubSpotBaseURL = "https://api.hubapi.com"

// HubSpotForwarder creates a HubSpot contact for each submission. It is only
// constructed when a CRM API key is configured; without one no forwarding
// happens at all.
type HubSpotForwarder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	retry   retry.Config
}

// NewHubSpotForwarder creates a forwarder. baseURL may be empty to use the
// production endpoint; tests point it at a local server.
func NewHubSpotForwarder(apiKey, baseURL string, logger *zap.Logger) *HubSpotForwarder {
	if baseURL == "" {
		baseURL = DefaultHubSpotBaseURL
	}
	f := &HubSpotForwarder{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
	f.retry = retry.Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.2,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			logger.Warn("CRM forward retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
		},
	}
	return f
}

var _ Forwarder = (*HubSpotForwarder)(nil)

// crmPermanentError marks responses that retrying cannot fix (4xx).
type crmPermanentError struct {
	status int
	body   string
}

func (e *crmPermanentError) Error() string {
	return fmt.Sprintf("crm returned %d: %s", e.status, e.body)
}

// Forward creates a contact in HubSpot, retrying transient failures with
// exponential backoff. 4xx responses other than 429 are not retried.
func (f *HubSpotForwarder) Forward(ctx context.Context, sub *Submission) error {
	cfg := f.retry
	cfg.RetryIf = func(err error) bool {
		_, permanent := err.(*crmPermanentError)
		return !permanent
	}
	return retry.Do(ctx, cfg, func(ctx context.Context) error {
		return f.createContact(ctx, sub)
	})
}

func (f *HubSpotForwarder) createContact(ctx context.Context, sub *Submission) error {
	payload := map[string]any{
		"properties": map[string]string{
			"email":   sub.Email,
			"message": sub.Message,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("contact: marshal crm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		f.baseURL+"/crm/v3/objects/contacts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("contact: build crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("contact: crm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return &crmPermanentError{status: resp.StatusCode, body: string(snippet)}
	}
	return fmt.Errorf("contact: crm returned %d: %s", resp.StatusCode, snippet)
}
